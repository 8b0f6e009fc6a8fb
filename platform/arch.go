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

package platform

import (
	"github.com/snapcore/spilpc/pci"
)

// CPUArchitecture identifies a family of Intel CPU silicon, as determined
// from the identifier pair of the host bridge.
type CPUArchitecture int

const (
	CPUUnknown CPUArchitecture = iota
	CPUSandyBridge
	CPUIvyBridge
	CPUHaswell
	CPUBroadwell
	CPUSkylake
	CPUKabyLake
	CPUCoffeeLake
	CPUWhiskeyLake
	CPUCometLake
	CPUIceLake
	CPUTigerLake
	CPUApolloLake
	CPUGeminiLake
	CPUDenverton
)

func (a CPUArchitecture) String() string {
	switch a {
	case CPUSandyBridge:
		return "snb"
	case CPUIvyBridge:
		return "ivb"
	case CPUHaswell:
		return "hsw"
	case CPUBroadwell:
		return "bdw"
	case CPUSkylake:
		return "skl"
	case CPUKabyLake:
		return "kbl"
	case CPUCoffeeLake:
		return "cfl"
	case CPUWhiskeyLake:
		return "whl"
	case CPUCometLake:
		return "cml"
	case CPUIceLake:
		return "icl"
	case CPUTigerLake:
		return "tgl"
	case CPUApolloLake:
		return "apl"
	case CPUGeminiLake:
		return "glk"
	case CPUDenverton:
		return "dnv"
	default:
		return "unknown"
	}
}

// PCHArchitecture identifies a family of Intel Platform Controller Hub
// silicon, as determined from the identifier pair of its LPC or eSPI
// bridge.
type PCHArchitecture int

const (
	PCHUnknown PCHArchitecture = iota
	PCH6Series                 // Cougar Point
	PCH7Series                 // Panther Point
	PCH8Series                 // Lynx Point, including LP
	PCH9Series                 // Wildcat Point, including LP
	PCH100Series               // Sunrise Point, H and LP
	PCH200Series               // Union Point
	PCH300Series               // Cannon Point, including LP
	PCH400Series               // Comet Point, including LP
	PCH495Series               // Ice Point-LP
	PCH500Series               // Tiger Point
	PCHC620Series              // Lewisburg
)

func (a PCHArchitecture) String() string {
	switch a {
	case PCH6Series:
		return "pch_6x"
	case PCH7Series:
		return "pch_7x"
	case PCH8Series:
		return "pch_8x"
	case PCH9Series:
		return "pch_9x"
	case PCH100Series:
		return "pch_1xx"
	case PCH200Series:
		return "pch_2xx"
	case PCH300Series:
		return "pch_3xx"
	case PCH400Series:
		return "pch_4xx"
	case PCH495Series:
		return "pch_495"
	case PCH500Series:
		return "pch_5xx"
	case PCHC620Series:
		return "pch_c620"
	default:
		return "unknown"
	}
}

// Host bridge device IDs, by CPU family.
var cpuDevices = []struct {
	arch    CPUArchitecture
	devices []uint16
}{
	{CPUSandyBridge, []uint16{0x0100, 0x0104, 0x0108}},
	{CPUIvyBridge, []uint16{0x0150, 0x0154, 0x0158}},
	{CPUHaswell, []uint16{0x0a04, 0x0c00, 0x0c04, 0x0c08, 0x0d00, 0x0d04}},
	{CPUBroadwell, []uint16{0x1604, 0x1610, 0x1614, 0x1618}},
	{CPUSkylake, []uint16{0x1900, 0x1904, 0x190c, 0x190f, 0x1910, 0x1918, 0x191f}},
	{CPUKabyLake, []uint16{0x5900, 0x5904, 0x590c, 0x590f, 0x5910, 0x5914, 0x591f}},
	{CPUCoffeeLake, []uint16{0x3e0f, 0x3e10, 0x3e18, 0x3e1f, 0x3e30, 0x3e31, 0x3e32, 0x3e33, 0x3ec2, 0x3ec4, 0x3ec6, 0x3eca, 0x3ecc}},
	{CPUWhiskeyLake, []uint16{0x3e34, 0x3e35}},
	{CPUCometLake, []uint16{0x9b33, 0x9b43, 0x9b44, 0x9b53, 0x9b54, 0x9b61, 0x9b63, 0x9b64, 0x9b71, 0x9b73, 0x9ba4, 0x9bb4, 0x9bc4, 0x9bca, 0x9bcc}},
	{CPUIceLake, []uint16{0x8a02, 0x8a10, 0x8a12, 0x8a14, 0x8a16, 0x8a18, 0x8a1a, 0x8a1c, 0x8a1e}},
	{CPUTigerLake, []uint16{0x9a02, 0x9a04, 0x9a12, 0x9a14, 0x9a26, 0x9a36}},
	{CPUApolloLake, []uint16{0x5af0}},
	{CPUGeminiLake, []uint16{0x3180, 0x31f0}},
	{CPUDenverton, []uint16{0x1980}},
}

// LPC / eSPI bridge device IDs, by PCH family.
var pchDevices = []struct {
	arch    PCHArchitecture
	devices []uint16
}{
	{PCH6Series, []uint16{
		0x1c44, 0x1c46, 0x1c47, 0x1c49, 0x1c4a, 0x1c4b, 0x1c4c, 0x1c4d,
		0x1c4e, 0x1c4f, 0x1c50, 0x1c52, 0x1c54, 0x1c56, 0x1c5c}},
	{PCH7Series, []uint16{
		0x1e44, 0x1e46, 0x1e47, 0x1e48, 0x1e49, 0x1e4a, 0x1e53, 0x1e55,
		0x1e56, 0x1e57, 0x1e58, 0x1e59, 0x1e5d, 0x1e5e, 0x1e5f}},
	{PCH8Series, []uint16{
		0x8c44, 0x8c46, 0x8c49, 0x8c4a, 0x8c4b, 0x8c4c, 0x8c4e, 0x8c4f,
		0x8c50, 0x8c52, 0x8c54, 0x8c56, 0x8c5c, 0x9c41, 0x9c43, 0x9c45}},
	{PCH9Series, []uint16{
		0x8cc1, 0x8cc2, 0x8cc3, 0x8cc4, 0x8cc6, 0x9cc1, 0x9cc2, 0x9cc3,
		0x9cc5, 0x9cc6, 0x9cc7, 0x9cc9}},
	{PCH100Series, []uint16{
		0xa140, 0xa141, 0xa142, 0xa143, 0xa144, 0xa145, 0xa146, 0xa147,
		0xa148, 0xa149, 0xa14a, 0xa14b, 0xa14c, 0xa14d, 0xa14e, 0xa14f,
		0xa150, 0xa151, 0xa152, 0xa153, 0xa154, 0xa155, 0x9d43, 0x9d46,
		0x9d48, 0x9d4e}},
	{PCH200Series, []uint16{
		0xa2c4, 0xa2c5, 0xa2c6, 0xa2c7, 0xa2c8, 0xa2c9, 0xa2ca, 0xa2cc,
		0xa2d2}},
	{PCH300Series, []uint16{
		0xa303, 0xa304, 0xa305, 0xa306, 0xa308, 0xa309, 0xa30a, 0xa30c,
		0xa30d, 0xa30e, 0x9d84}},
	{PCH400Series, []uint16{
		0x0284, 0x0285, 0x0684, 0x0685, 0x0687, 0x068c, 0x068d, 0x068e,
		0x0697}},
	{PCH495Series, []uint16{0x3482}},
	{PCH500Series, []uint16{
		0x4384, 0x4385, 0x4386, 0x4387, 0x4388, 0x4389, 0x438a, 0x438b,
		0xa082, 0xa088}},
	{PCHC620Series, []uint16{
		0xa1c1, 0xa1c2, 0xa1c3, 0xa1c4, 0xa1c5, 0xa1c6, 0xa1c7, 0xa242,
		0xa243}},
}

var (
	cpuTable = func() map[pci.ID]CPUArchitecture {
		table := make(map[pci.ID]CPUArchitecture)
		for _, family := range cpuDevices {
			for _, dev := range family.devices {
				table[pci.ID{Vendor: pci.VendorIntel, Device: dev}] = family.arch
			}
		}
		return table
	}()

	pchTable = func() map[pci.ID]PCHArchitecture {
		table := make(map[pci.ID]PCHArchitecture)
		for _, family := range pchDevices {
			for _, dev := range family.devices {
				table[pci.ID{Vendor: pci.VendorIntel, Device: dev}] = family.arch
			}
		}
		return table
	}()
)

// ResolveCPU returns the CPU family associated with the supplied host
// bridge identifier, or CPUUnknown if it isn't recognized.
func ResolveCPU(id pci.ID) CPUArchitecture {
	return cpuTable[id]
}

// ResolvePCH returns the PCH family associated with the supplied LPC or
// eSPI bridge identifier, or PCHUnknown if it isn't recognized.
func ResolvePCH(id pci.ID) PCHArchitecture {
	return pchTable[id]
}
