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

package bioscntl

import (
	"fmt"

	"github.com/snapcore/spilpc/pci"
	"github.com/snapcore/spilpc/platform"
)

// BIOSControlOffset is the config space offset of the BIOS Control
// register in every function that exposes one.
const BIOSControlOffset = 0xdc

var (
	// LPCAddress is the LPC bridge, which hosts the BIOS Control
	// register up to and including the 9-series PCH.
	LPCAddress = pci.Address{Bus: 0, Device: 0x1f, Function: 0}

	// SPIAddress is the SPI controller from the 100-series PCH onwards.
	SPIAddress = pci.Address{Bus: 0, Device: 0x1f, Function: 5}

	// SoCSPIAddress is the SPI controller on Atom SoCs that integrate
	// the PCH, such as Apollo Lake and Gemini Lake.
	SoCSPIAddress = pci.Address{Bus: 0, Device: 0x0d, Function: 2}
)

// Location describes where a BIOS Control register can be read from.
type Location struct {
	Address pci.Address
	Offset  uint16
	Width   pci.Width
}

func (l Location) String() string {
	return fmt.Sprintf("%s offset %#x (%d byte(s))", l.Address, l.Offset, l.Width)
}

// UnsupportedPlatformError is returned from Locate and ReadRegister if the
// location of the BIOS Control register is not known for a platform.
type UnsupportedPlatformError struct {
	CPU platform.CPUArchitecture
	PCH platform.PCHArchitecture
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no BIOS control register location for CPU %v and PCH %v", e.CPU, e.PCH)
}

type locationEntry struct {
	cpu platform.CPUArchitecture // CPUUnknown matches any CPU
	pch platform.PCHArchitecture // PCHUnknown matches any PCH
	loc Location
}

func (e *locationEntry) matches(identity *platform.Identity) bool {
	if e.cpu != platform.CPUUnknown && e.cpu != identity.CPU {
		return false
	}
	if e.pch != platform.PCHUnknown && e.pch != identity.PCH {
		return false
	}
	return true
}

var (
	lpcLocation    = Location{Address: LPCAddress, Offset: BIOSControlOffset, Width: pci.Byte}
	spiLocation    = Location{Address: SPIAddress, Offset: BIOSControlOffset, Width: pci.Dword}
	socSPILocation = Location{Address: SoCSPIAddress, Offset: BIOSControlOffset, Width: pci.Dword}
)

// locations is searched in order, and the first match wins. Entries keyed
// by CPU come first because SoCs don't have a separate PCH, and whatever
// is at 00:1f.0 on those isn't a reliable guide.
var locations = []locationEntry{
	{cpu: platform.CPUApolloLake, loc: socSPILocation},
	{cpu: platform.CPUGeminiLake, loc: socSPILocation},
	{cpu: platform.CPUDenverton, loc: spiLocation},

	{pch: platform.PCH6Series, loc: lpcLocation},
	{pch: platform.PCH7Series, loc: lpcLocation},
	{pch: platform.PCH8Series, loc: lpcLocation},
	{pch: platform.PCH9Series, loc: lpcLocation},

	{pch: platform.PCH100Series, loc: spiLocation},
	{pch: platform.PCH200Series, loc: spiLocation},
	{pch: platform.PCH300Series, loc: spiLocation},
	{pch: platform.PCH400Series, loc: spiLocation},
	{pch: platform.PCH495Series, loc: spiLocation},
	{pch: platform.PCH500Series, loc: spiLocation},
	{pch: platform.PCHC620Series, loc: spiLocation},

	// Fall back to the CPU when the PCH isn't recognized. Each of these
	// CPU generations only pairs with PCHs from one of the groups above.
	{cpu: platform.CPUSandyBridge, loc: lpcLocation},
	{cpu: platform.CPUIvyBridge, loc: lpcLocation},
	{cpu: platform.CPUHaswell, loc: lpcLocation},
	{cpu: platform.CPUBroadwell, loc: lpcLocation},

	{cpu: platform.CPUSkylake, loc: spiLocation},
	{cpu: platform.CPUKabyLake, loc: spiLocation},
	{cpu: platform.CPUCoffeeLake, loc: spiLocation},
	{cpu: platform.CPUWhiskeyLake, loc: spiLocation},
	{cpu: platform.CPUCometLake, loc: spiLocation},
	{cpu: platform.CPUIceLake, loc: spiLocation},
	{cpu: platform.CPUTigerLake, loc: spiLocation},
}

// Locate returns the location of the BIOS Control register for the
// supplied platform.
func Locate(identity *platform.Identity) (Location, error) {
	if identity.Usable() {
		for _, e := range locations {
			if e.matches(identity) {
				return e.loc, nil
			}
		}
	}
	return Location{}, &UnsupportedPlatformError{CPU: identity.CPU, PCH: identity.PCH}
}

// ReadLocation reads a BIOS Control register from the specified location.
func ReadLocation(cs pci.ConfigSpace, loc Location) (Register, error) {
	val, err := cs.ReadConfig(loc.Address, loc.Offset, loc.Width)
	if err != nil {
		return 0, err
	}
	return Register(val), nil
}

// ReadRegister locates and reads the BIOS Control register for the
// supplied platform. This makes exactly one config space read, and the
// result is never cached.
func ReadRegister(cs pci.ConfigSpace, identity *platform.Identity) (Register, error) {
	loc, err := Locate(identity)
	if err != nil {
		return 0, err
	}
	return ReadLocation(cs, loc)
}
