// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package securityfs provides an in-process tree of directories and
// read-only pseudo-files whose content is generated on every read, in the
// manner of the kernel's securityfs. It can be consumed via [io/fs].
package securityfs

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotEmpty is returned wrapped in a *fs.PathError from Remove when
// attempting to remove a directory that still has entries.
var ErrNotEmpty = errors.New("directory not empty")

// ContentFunc produces the complete content of a pseudo-file. It is called
// for every read that begins before the end of the previously produced
// content, and may be called concurrently.
type ContentFunc func() ([]byte, error)

// Dentry is a directory or a pseudo-file in a FS.
type Dentry struct {
	fs       *FS
	name     string
	parent   *Dentry
	mode     fs.FileMode
	modTime  time.Time
	content  ContentFunc        // nil for directories
	children map[string]*Dentry // nil for files
	removed  bool
}

// Name returns the base name of this entry.
func (d *Dentry) Name() string {
	return d.name
}

// Path returns the slash separated path of this entry relative to the
// root of its filesystem.
func (d *Dentry) Path() string {
	if d.parent == nil {
		return "."
	}
	var elems []string
	for e := d; e.parent != nil; e = e.parent {
		elems = append([]string{e.name}, elems...)
	}
	return path.Join(elems...)
}

// IsDir indicates whether this entry is a directory.
func (d *Dentry) IsDir() bool {
	return d.mode.IsDir()
}

func (d *Dentry) info() *fileInfo {
	return &fileInfo{name: path.Base(d.Path()), mode: d.mode, modTime: d.modTime}
}

// Option is an option supplied to New.
type Option func(*FS)

// WithAccessCheck installs a function that is called every time a
// pseudo-file is opened. If it returns an error, the open fails with
// fs.ErrPermission.
func WithAccessCheck(check func() error) Option {
	return func(f *FS) {
		f.accessCheck = check
	}
}

// FS is an in-process securityfs instance. It is safe for concurrent use.
type FS struct {
	mu          sync.RWMutex
	root        *Dentry
	accessCheck func() error
}

// New returns a new, empty FS.
func New(options ...Option) *FS {
	f := new(FS)
	f.root = &Dentry{
		fs:       f,
		mode:     fs.ModeDir | 0755,
		modTime:  time.Now(),
		children: make(map[string]*Dentry),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Root returns the root directory.
func (f *FS) Root() *Dentry {
	return f.root
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}

func (f *FS) create(op, name string, parent *Dentry, d *Dentry) (*Dentry, error) {
	if parent == nil {
		parent = f.root
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case parent.fs != f:
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	case parent.removed:
		return nil, &fs.PathError{Op: op, Path: path.Join(parent.Path(), name), Err: fs.ErrNotExist}
	case !parent.IsDir():
		return nil, &fs.PathError{Op: op, Path: path.Join(parent.Path(), name), Err: fs.ErrInvalid}
	case !validName(name):
		return nil, &fs.PathError{Op: op, Path: path.Join(parent.Path(), name), Err: fs.ErrInvalid}
	}
	if _, exists := parent.children[name]; exists {
		return nil, &fs.PathError{Op: op, Path: path.Join(parent.Path(), name), Err: fs.ErrExist}
	}

	d.fs = f
	d.name = name
	d.parent = parent
	d.modTime = time.Now()
	parent.children[name] = d
	return d, nil
}

// CreateDir creates a new directory with the specified name inside parent.
// If parent is nil, the directory is created in the root directory.
func (f *FS) CreateDir(name string, parent *Dentry) (*Dentry, error) {
	return f.create("mkdir", name, parent, &Dentry{
		mode:     fs.ModeDir | 0755,
		children: make(map[string]*Dentry),
	})
}

// CreateFile creates a new read-only pseudo-file with the specified name and
// permissions inside parent. If parent is nil, the file is created in the
// root directory. Every read calls content.
func (f *FS) CreateFile(name string, mode fs.FileMode, parent *Dentry, content ContentFunc) (*Dentry, error) {
	if mode&^fs.ModePerm != 0 || content == nil {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
	}
	return f.create("create", name, parent, &Dentry{
		mode:    mode,
		content: content,
	})
}

// Remove removes the supplied entry. It does nothing if d is nil or has
// already been removed. Directories must be empty. Files that are already
// open remain readable.
func (f *FS) Remove(d *Dentry) error {
	if d == nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case d.fs != f || d.parent == nil:
		return &fs.PathError{Op: "remove", Path: d.name, Err: fs.ErrInvalid}
	case d.removed:
		return nil
	case len(d.children) > 0:
		return &fs.PathError{Op: "remove", Path: d.Path(), Err: ErrNotEmpty}
	}

	delete(d.parent.children, d.name)
	d.removed = true
	return nil
}

func (f *FS) lookup(name string) (*Dentry, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	d := f.root
	if name == "." {
		return d, nil
	}
	for _, elem := range strings.Split(name, "/") {
		if !d.IsDir() {
			return nil, fs.ErrNotExist
		}
		child, exists := d.children[elem]
		if !exists {
			return nil, fs.ErrNotExist
		}
		d = child
	}
	return d, nil
}

func (f *FS) readDir(d *Dentry) []fs.DirEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var entries []fs.DirEntry
	for _, child := range d.children {
		entries = append(entries, child.info())
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries
}

// Open implements [fs.FS.Open].
func (f *FS) Open(name string) (fs.File, error) {
	d, err := f.lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	if d.IsDir() {
		return &dir{d: d, entries: f.readDir(d)}, nil
	}

	if f.accessCheck != nil {
		if err := f.accessCheck(); err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: &accessError{err: err}}
		}
	}
	return &file{d: d, path: name}, nil
}

type accessError struct {
	err error
}

func (e *accessError) Error() string {
	return "permission denied: " + e.err.Error()
}

func (e *accessError) Is(target error) bool {
	return target == fs.ErrPermission
}

func (e *accessError) Unwrap() error {
	return e.err
}
