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

// Package bioscntl locates and decodes the Intel BIOS Control (BC)
// register, which gates writes to the SPI flash containing the platform
// firmware.
package bioscntl

const (
	// BIOSWEMask is the BIOS Write Enable bit.
	BIOSWEMask Register = 1 << 0

	// BLEMask is the BIOS Lock Enable bit.
	BLEMask Register = 1 << 1

	// SMMBWPMask is the SMM BIOS Write Protect bit.
	SMMBWPMask Register = 1 << 5
)

// Register is a value read from a BIOS Control register. The bits
// decoded here are at the same position for every register location.
type Register uint64

// WriteEnable indicates whether writes to the BIOS region of the flash
// are currently permitted at the hardware gate (BIOSWE).
func (r Register) WriteEnable() bool {
	return r&BIOSWEMask != 0
}

// LockEnable indicates whether the BIOSWE bit is latched until the next
// reset (BLE).
func (r Register) LockEnable() bool {
	return r&BLEMask != 0
}

// SMMBIOSWriteProtectDisable returns the state of the SMM_BWP bit.
func (r Register) SMMBIOSWriteProtectDisable() bool {
	return r&SMMBWPMask != 0
}
