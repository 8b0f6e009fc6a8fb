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

package spilpc

import (
	"io/fs"

	"github.com/hashicorp/go-multierror"
	"github.com/snapcore/snapd/logger"
	"golang.org/x/xerrors"

	"github.com/snapcore/spilpc/securityfs"
)

// EntryMode is the mode of every status entry.
const EntryMode fs.FileMode = 0600

// Filesystem is a protected filesystem that status entries are published
// to. It is implemented by *securityfs.FS.
type Filesystem interface {
	CreateDir(name string, parent *securityfs.Dentry) (*securityfs.Dentry, error)
	CreateFile(name string, mode fs.FileMode, parent *securityfs.Dentry, content securityfs.ContentFunc) (*securityfs.Dentry, error)
	Remove(d *securityfs.Dentry) error
}

// DefaultRoot returns the name of the directory that status entries are
// published in by default for the specified variant.
func DefaultRoot(variant Variant) string {
	switch variant {
	case VariantFixedOffset:
		return "spi"
	default:
		return "firmware"
	}
}

// Surface is a set of published status entries.
type Surface struct {
	fs      Filesystem
	root    string
	dir     *securityfs.Dentry
	entries []*securityfs.Dentry
	flags   []ProtectionFlag
}

func entryContent(ctx *PlatformContext, flag ProtectionFlag) securityfs.ContentFunc {
	return func() ([]byte, error) {
		state, err := ctx.ReadFlag(flag)
		if err != nil {
			return nil, err
		}
		return FormatFlag(state), nil
	}
}

// Publish creates a directory with the name root in the root directory of
// fsys, and a status entry inside it for each of the supplied flags. All
// flags are published if none are supplied. Every read of an entry
// performs a fresh read of the BIOS Control register via ctx.
//
// If any part of this fails, everything that was created is removed again
// before returning an error.
func Publish(fsys Filesystem, ctx *PlatformContext, root string, flags ...ProtectionFlag) (surface *Surface, err error) {
	if len(flags) == 0 {
		flags = AllProtectionFlags
	}

	s := &Surface{fs: fsys, root: root}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := s.Unpublish(); rmErr != nil {
			logger.Noticef("cannot remove partially published entries: %v", rmErr)
		}
	}()

	s.dir, err = fsys.CreateDir(root, nil)
	if err != nil {
		return nil, xerrors.Errorf("cannot create %s directory: %w", root, err)
	}

	for _, flag := range flags {
		entry, err := fsys.CreateFile(flag.EntryName(), EntryMode, s.dir, entryContent(ctx, flag))
		if err != nil {
			return nil, xerrors.Errorf("cannot create %s entry: %w", flag.EntryName(), err)
		}
		s.entries = append(s.entries, entry)
		s.flags = append(s.flags, flag)
	}

	logger.Noticef("published BIOS control status entries %v in %s", s.flags, root)
	return s, nil
}

// Root returns the name of the directory containing the status entries.
func (s *Surface) Root() string {
	return s.root
}

// Flags returns the published flags, in publication order.
func (s *Surface) Flags() []ProtectionFlag {
	return append([]ProtectionFlag(nil), s.flags...)
}

// Unpublish removes every status entry and the directory containing them,
// in the reverse order to which they were created. It makes an attempt to
// remove everything, even if some removals fail.
func (s *Surface) Unpublish() error {
	var (
		errs        *multierror.Error
		keptEntries []*securityfs.Dentry
		keptFlags   []ProtectionFlag
	)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if err := s.fs.Remove(s.entries[i]); err != nil {
			errs = multierror.Append(errs, err)
			keptEntries = append([]*securityfs.Dentry{s.entries[i]}, keptEntries...)
			keptFlags = append([]ProtectionFlag{s.flags[i]}, keptFlags...)
		}
	}
	s.entries = keptEntries
	s.flags = keptFlags

	if len(s.entries) == 0 && s.dir != nil {
		if err := s.fs.Remove(s.dir); err != nil {
			errs = multierror.Append(errs, err)
		} else {
			s.dir = nil
		}
	}
	return errs.ErrorOrNil()
}
