// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package fs

import (
	"path/filepath"
	"strings"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if paths, ok := lookup(EnvPath); ok && paths != "" {
		return strings.Split(paths, ";")
	}
	userprofile, _ := lookup("USERPROFILE")
	systemdrive, _ := lookup("SystemDrive")

	return []string{
		filepath.Join(userprofile, "AppData", "Local", "remotefetch"),
		filepath.Join(systemdrive, "ProgramData", "remotefetch"),
	}
}
