// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"path/filepath"
)

// EnvPath overrides the default roots with a list of directories separated by
// the platform's path list separator.
const EnvPath = "REMOTEFETCH_PATH"

// NewDefaultSource returns the sources searched after any explicit roots.
func NewDefaultSource(lookup func(string) (string, bool)) (SourceMulti, error) {
	roots := getDefaultRoots(lookup)
	f := make(SourceMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := NewSourceLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
