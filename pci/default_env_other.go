//go:build !linux

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

// RequireCapSysAdmin returns ErrUnsupportedHost on this host.
func RequireCapSysAdmin() error {
	return ErrUnsupportedHost
}

// ReadConfig implements [ConfigSpace.ReadConfig].
func (defaultEnvImpl) ReadConfig(addr Address, offset uint16, width Width) (uint64, error) {
	return 0, &BusReadError{Address: addr, Offset: offset, Width: width, Err: ErrUnsupportedHost}
}

// EnumerateDevices implements [HostEnvironment.EnumerateDevices].
func (defaultEnvImpl) EnumerateDevices() ([]*Device, error) {
	return nil, ErrUnsupportedHost
}
