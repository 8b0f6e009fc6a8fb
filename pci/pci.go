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

// Package pci provides access to the PCI configuration space of the
// host, which is where the chipset exposes its BIOS control registers.
//
// The HostEnvironment interface abstracts this so that callers can supply
// their own mechanism, and so that tests can simulate a PCI bus.
// DefaultEnv implements it on Linux using sysfs.
package pci

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// ConfigSpaceSize is the size of the PCI Express extended configuration
// space of a single function.
const ConfigSpaceSize = 4096

// VendorIntel is the PCI vendor ID assigned to Intel.
const VendorIntel uint16 = 0x8086

// Address identifies a single PCI function.
type Address struct {
	Domain   uint16
	Bus      uint8
	Device   uint8
	Function uint8
}

// String returns the address in the form used for slot names in sysfs,
// eg, 0000:00:1f.0.
func (a Address) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Device, a.Function)
}

// ParseAddress parses a slot name in the form returned by [Address.String].
func ParseAddress(s string) (Address, error) {
	var (
		domain   uint16
		bus      uint8
		dev      uint8
		function uint8
	)
	n, err := fmt.Sscanf(strings.ToLower(s), "%04x:%02x:%02x.%1x", &domain, &bus, &dev, &function)
	if err != nil {
		return Address{}, fmt.Errorf("invalid PCI address %q: %w", s, err)
	}
	if n != 4 {
		return Address{}, fmt.Errorf("invalid PCI address %q: unexpected number of arguments scanned", s)
	}
	if dev > 0x1f || function > 7 {
		return Address{}, fmt.Errorf("invalid PCI address %q: device or function out of range", s)
	}
	return Address{Domain: domain, Bus: bus, Device: dev, Function: function}, nil
}

// Width is the size of a config space access in bytes.
type Width int

const (
	Byte  Width = 1
	Word  Width = 2
	Dword Width = 4
	Qword Width = 8
)

// Valid indicates whether this is a width that can be used for a config
// space access.
func (w Width) Valid() bool {
	switch w {
	case Byte, Word, Dword, Qword:
		return true
	default:
		return false
	}
}

// Mask returns the mask that covers a value of this width.
func (w Width) Mask() uint64 {
	if w >= Qword {
		return ^uint64(0)
	}
	return (uint64(1) << (uint(w) * 8)) - 1
}

// ID is the vendor and device identifier pair of a PCI function.
type ID struct {
	Vendor uint16
	Device uint16
}

func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Device)
}

// ParseID parses an identifier pair in the form used by the PCI_ID uevent
// variable, eg, 8086:A144.
func ParseID(s string) (ID, error) {
	var vendor, device uint16
	n, err := fmt.Sscanf(strings.ToLower(s), "%04x:%04x", &vendor, &device)
	if err != nil {
		return ID{}, fmt.Errorf("invalid PCI ID %q: %w", s, err)
	}
	if n != 2 {
		return ID{}, fmt.Errorf("invalid PCI ID %q: unexpected number of arguments scanned", s)
	}
	return ID{Vendor: vendor, Device: device}, nil
}

// Device is a PCI function that is present on the bus.
type Device struct {
	Address Address
	ID      ID
}

func (d *Device) String() string {
	return fmt.Sprintf("%s [%s]", d.Address, d.ID)
}

// ConfigSpace provides read access to PCI configuration space.
type ConfigSpace interface {
	// ReadConfig reads a value of the specified width from the config
	// space of the function at addr, starting at offset. Multi-byte
	// values are little-endian. On failure, a *BusReadError is returned.
	ReadConfig(addr Address, offset uint16, width Width) (uint64, error)
}

// HostEnvironment is an interface that abstracts out the PCI and CPU
// facilities of a host, so that consumers of the API can provide ways to
// mock parts of an environment.
type HostEnvironment interface {
	ConfigSpace

	// EnumerateDevices returns every PCI function on the host, sorted
	// by address.
	EnumerateDevices() ([]*Device, error)

	// CPUVendorIdentificator returns the CPU vendor string, eg,
	// "GenuineIntel". This returns ErrNotAMD64Host on hosts where this
	// cannot be determined.
	CPUVendorIdentificator() (string, error)
}

// LookupDevice returns the first of devices with the supplied identifier,
// or ErrNoDevice if there are none. When devices comes from
// HostEnvironment.EnumerateDevices, this is the one with the lowest
// address.
func LookupDevice(devices []*Device, id ID) (*Device, error) {
	for _, dev := range devices {
		if dev.ID == id {
			return dev, nil
		}
	}
	return nil, ErrNoDevice
}

// SortDevices sorts devices by address.
func SortDevices(devices []*Device) {
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address.String() < devices[j].Address.String()
	})
}

// CheckAccess returns an error if the supplied access is not valid for a
// function's config space.
func CheckAccess(offset uint16, width Width) error {
	if !width.Valid() {
		return fmt.Errorf("%w: invalid width %d", ErrInvalidAccess, width)
	}
	if int(offset)+int(width) > ConfigSpaceSize {
		return fmt.Errorf("%w: offset %#x is out of range", ErrInvalidAccess, offset)
	}
	return nil
}

// DecodeValue decodes a little-endian config space value of the specified
// width from data.
func DecodeValue(data []byte, width Width) uint64 {
	var buf [8]byte
	copy(buf[:], data[:width])
	return binary.LittleEndian.Uint64(buf[:])
}

// ReadID reads the vendor and device identifier pair of the function at
// addr. These are the first two words of its config space.
func ReadID(cs ConfigSpace, addr Address) (ID, error) {
	val, err := cs.ReadConfig(addr, 0, Dword)
	if err != nil {
		return ID{}, err
	}
	return ID{
		Vendor: uint16(val & Word.Mask()),
		Device: uint16((val >> 16) & Word.Mask()),
	}, nil
}
