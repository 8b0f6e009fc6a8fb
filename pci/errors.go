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

package pci

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevice is returned from LookupDevice if there is no device
	// with the requested identifier, and wrapped in
	// BusReadError when reading from a function that doesn't exist.
	ErrNoDevice = errors.New("no such PCI device")

	// ErrInvalidAccess is returned wrapped in BusReadError for reads
	// with an unsupported width or that fall outside of config space.
	ErrInvalidAccess = errors.New("invalid config space access")

	// ErrNoCapSysAdmin is returned wrapped in BusReadError from
	// DefaultEnv if a read beyond the standard header is attempted
	// without CAP_SYS_ADMIN. The kernel doesn't fail these reads, it
	// just truncates them.
	ErrNoCapSysAdmin = errors.New("CAP_SYS_ADMIN is required")

	// ErrNotAMD64Host is returned from
	// HostEnvironment.CPUVendorIdentificator on hosts that are not AMD64.
	ErrNotAMD64Host = errors.New("not a AMD64 host")

	// ErrUnsupportedHost is returned from DefaultEnv on hosts other than
	// Linux.
	ErrUnsupportedHost = errors.New("PCI config space access is not supported on this host")
)

// BusReadError is returned from ConfigSpace.ReadConfig when a value could
// not be read from config space.
type BusReadError struct {
	Address Address
	Offset  uint16
	Width   Width
	Err     error
}

func (e *BusReadError) Error() string {
	return fmt.Sprintf("cannot read %d byte(s) at offset %#x of PCI function %s: %v", e.Width, e.Offset, e.Address, e.Err)
}

func (e *BusReadError) Unwrap() error {
	return e.Err
}
