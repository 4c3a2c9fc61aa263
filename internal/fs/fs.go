// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package fs provides read-only sources that a request controller fetches
// targets from.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.microglot.org/remote.go/internal/exc"
	"gopkg.microglot.org/remote.go/internal/target"
)

// Source reads the full content of a target. Implementations must be safe
// for concurrent use and should honor ctx cancellation.
type Source interface {
	Read(ctx context.Context, uri string) ([]byte, error)
}

var _ Source = SourceMulti{}

// SourceMulti is an ordered set of Source implementations that are tried in
// order. The first successful read wins. A source that does not have the
// target passes to the next one. When every source fails, the first failure
// other than not found is returned.
type SourceMulti []Source

func (r SourceMulti) Read(ctx context.Context, uri string) ([]byte, error) {
	var first exc.Exception
	for _, src := range r {
		if err := ctx.Err(); err != nil {
			return nil, exc.FromContext(uri, err)
		}
		b, err := src.Read(ctx, uri)
		if err == nil {
			return b, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(err, ctxErr) {
				return nil, exc.FromContext(uri, err)
			}
			return nil, exc.FromContext(uri, ctxErr)
		}
		e := exc.FromContext(uri, err)
		if e.Code() != exc.CodeNotFound && first == nil {
			first = e
		}
	}
	if first != nil {
		return nil, first
	}
	return nil, exc.NewDetail(exc.CodeNotFound, fmt.Sprintf("could not read %s from any source", uri), uri)
}

type SourceLocalOption func(*sourceLocal)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle. The default value is os.DirFS. The string
// value provided to the factory function is the root directory of the file
// system. All targets are considered relative to this root.
func WithOptionFSFactory(v func(root string) fs.FS) SourceLocalOption {
	return func(src *sourceLocal) {
		src.fsFactory = v
	}
}

type sourceLocal struct {
	root      string
	fsFactory func(string) fs.FS
	once      sync.Once
	dir       fs.FS
}

// NewSourceLocal creates a Source that reads files below root.
func NewSourceLocal(root string, options ...SourceLocalOption) (Source, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(root, err)
	}
	result := &sourceLocal{
		root:      absroot,
		fsFactory: os.DirFS,
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *sourceLocal) Read(ctx context.Context, uri string) ([]byte, error) {
	r.once.Do(func() {
		r.dir = r.fsFactory(r.root)
	})
	if err := ctx.Err(); err != nil {
		return nil, exc.FromContext(uri, err)
	}
	path := target.Normalize(uri)
	p := target.Relative(path)
	f, err := r.dir.Open(p)
	if err != nil {
		return nil, fsErr(path, err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, fsErr(path, err)
	}
	if stat.IsDir() {
		return nil, exc.NewDetail(exc.CodeUnsupportedOperation, fmt.Sprintf("%s is a directory", path), path)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fsErr(path, err)
	}
	return b, nil
}

// NewSourceString serves static content keyed by normalized target.
func NewSourceString(content map[string]string) Source {
	files := make(map[string]string, len(content))
	for k, v := range content {
		files[target.Normalize(k)] = v
	}
	return sourceString(files)
}

type sourceString map[string]string

func (s sourceString) Read(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.FromContext(uri, err)
	}
	path := target.Normalize(uri)
	v, ok := s[path]
	if !ok {
		return nil, exc.NewDetail(exc.CodeNotFound, fmt.Sprintf("%s does not exist", path), path)
	}
	return []byte(v), nil
}

func fsErr(path string, err error) error {
	if errT, ok := err.(*fs.PathError); ok {
		switch errT.Err {
		case fs.ErrNotExist:
			return exc.Wrap(exc.CodeNotFound, path, errT)
		case fs.ErrPermission:
			return exc.Wrap(exc.CodePermissionDenied, path, errT)
		default:
			return exc.WrapUnknown(path, errT)
		}
	}
	return exc.WrapUnknown(path, err)
}
