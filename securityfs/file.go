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

package securityfs

import (
	"io"
	"io/fs"
	"sync"
	"time"
)

type fileInfo struct {
	name    string
	mode    fs.FileMode
	modTime time.Time
}

func (i *fileInfo) Name() string               { return i.name }
func (i *fileInfo) Size() int64                { return 0 }
func (i *fileInfo) Mode() fs.FileMode          { return i.mode }
func (i *fileInfo) ModTime() time.Time         { return i.modTime }
func (i *fileInfo) IsDir() bool                { return i.mode.IsDir() }
func (i *fileInfo) Sys() interface{}           { return nil }
func (i *fileInfo) Type() fs.FileMode          { return i.mode.Type() }
func (i *fileInfo) Info() (fs.FileInfo, error) { return i, nil }

// file is an open pseudo-file. The size of a pseudo-file is only known
// once its content has been produced, so Stat always reports zero like
// the kernel does.
type file struct {
	d    *Dentry
	path string

	mu     sync.Mutex
	closed bool
	offset int
	eof    bool
}

func (f *file) Stat() (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, &fs.PathError{Op: "stat", Path: f.path, Err: fs.ErrClosed}
	}
	return f.d.info(), nil
}

func (f *file) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: fs.ErrClosed}
	case f.eof:
		return 0, io.EOF
	case len(p) == 0:
		return 0, nil
	}

	data, err := f.d.content()
	if err != nil {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: err}
	}
	if f.offset >= len(data) {
		f.eof = true
		return 0, io.EOF
	}

	n := copy(p, data[f.offset:])
	f.offset += n
	if f.offset >= len(data) {
		f.eof = true
	}
	return n, nil
}

func (f *file) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return &fs.PathError{Op: "close", Path: f.path, Err: fs.ErrClosed}
	}
	f.closed = true
	return nil
}

// dir is an open directory. Its entries are captured when it is opened.
type dir struct {
	d *Dentry

	mu      sync.Mutex
	closed  bool
	entries []fs.DirEntry
}

func (d *dir) Stat() (fs.FileInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, &fs.PathError{Op: "stat", Path: d.d.Path(), Err: fs.ErrClosed}
	}
	return d.d.info(), nil
}

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.d.Path(), Err: fs.ErrInvalid}
}

func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, &fs.PathError{Op: "readdir", Path: d.d.Path(), Err: fs.ErrClosed}
	}

	if n <= 0 {
		entries := d.entries
		d.entries = nil
		return entries, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	entries := d.entries[:n]
	d.entries = d.entries[n:]
	return entries, nil
}

func (d *dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return &fs.PathError{Op: "close", Path: d.d.Path(), Err: fs.ErrClosed}
	}
	d.closed = true
	return nil
}
