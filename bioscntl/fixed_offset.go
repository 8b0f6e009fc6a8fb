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
	"errors"
	"fmt"

	"github.com/snapcore/spilpc/pci"
)

// FixedOffsetRegister is the BIOS Control register offset used by the
// fixed-offset controllers.
const FixedOffsetRegister = BIOSControlOffset

// ErrNoControllerFound is returned from FindController if none of
// FixedOffsetControllers is present.
var ErrNoControllerFound = errors.New("no supported LPC or SPI controller found")

// Controller is a LPC, eSPI or SPI controller that exposes a BIOS Control
// register at FixedOffsetRegister.
type Controller struct {
	ID   pci.ID
	Name string
}

func intelController(device uint16, name string) Controller {
	return Controller{ID: pci.ID{Vendor: pci.VendorIntel, Device: device}, Name: name}
}

// FixedOffsetControllers are searched in order by FindController.
var FixedOffsetControllers = []Controller{
	intelController(0x02a4, "Comet Lake SPI"),
	intelController(0x34a4, "Ice Lake-LP SPI"),
	intelController(0x9c66, "8 Series SPI"),
	intelController(0x9ce6, "Wildcat Point-LP GSPI"),
	intelController(0x9d2a, "Sunrise Point-LP/SPI"),
	intelController(0x9d4e, "Sunrise Point LPC/eSPI"),
	intelController(0x9da4, "Cannon Point-LP SPI"),
	intelController(0xa140, "Sunrise Point-H LPC"),
	intelController(0xa141, "Sunrise Point-H LPC"),
	intelController(0xa142, "Sunrise Point-H LPC"),
	intelController(0xa143, "H110 LPC/eSPI"),
	intelController(0xa144, "H170 LPC/eSPI"),
	intelController(0xa145, "Z170 LPC/eSPI"),
	intelController(0xa146, "Q170 LPC/eSPI"),
	intelController(0xa147, "Q150 LPC/eSPI"),
	intelController(0xa148, "B150 LPC/eSPI"),
	intelController(0xa149, "C236 LPC/eSPI"),
	intelController(0xa14a, "C232 LPC/eSPI"),
	intelController(0xa14b, "Sunrise Point-H LPC"),
	intelController(0xa14c, "Sunrise Point-H LPC"),
	intelController(0xa14d, "QM170 LPC/eSPI"),
	intelController(0xa14e, "HM170 LPC/eSPI"),
	intelController(0xa14f, "Sunrise Point-H LPC"),
	intelController(0xa150, "CM236 LPC/eSPI"),
	intelController(0xa151, "Sunrise Point-H LPC"),
	intelController(0xa152, "HM175 LPC/eSPI"),
	intelController(0xa153, "QM175 LPC/eSPI"),
	intelController(0xa154, "CM238 LPC/eSPI"),
	intelController(0xa155, "Sunrise Point-H LPC"),
	intelController(0xa1c1, "C621 LPC/eSPI"),
	intelController(0xa1c2, "C622 LPC/eSPI"),
	intelController(0xa1c3, "C624 LPC/eSPI"),
	intelController(0xa1c4, "C625 LPC/eSPI"),
	intelController(0xa1c5, "C626 LPC/eSPI"),
	intelController(0xa1c6, "C627 LPC/eSPI"),
	intelController(0xa1c7, "C628 LPC/eSPI"),
	intelController(0xa304, "H370 LPC/eSPI"),
	intelController(0xa305, "Z390 LPC/eSPI"),
	intelController(0xa306, "Q370 LPC/eSPI"),
	intelController(0xa30c, "QM370 LPC/eSPI"),
	intelController(0xa324, "Cannon Lake PCH SPI"),
}

// DeviceEnumerator lists the PCI functions on a host.
type DeviceEnumerator interface {
	EnumerateDevices() ([]*pci.Device, error)
}

// FindController returns the first of FixedOffsetControllers that is
// present, along with its table entry. The host's devices are enumerated
// once. If none are present, ErrNoControllerFound is returned.
func FindController(enumerator DeviceEnumerator) (*pci.Device, *Controller, error) {
	devices, err := enumerator.EnumerateDevices()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot enumerate PCI devices: %w", err)
	}

	for i := range FixedOffsetControllers {
		ctrl := &FixedOffsetControllers[i]

		dev, err := pci.LookupDevice(devices, ctrl.ID)
		if errors.Is(err, pci.ErrNoDevice) {
			continue
		}
		return dev, ctrl, nil
	}
	return nil, nil, ErrNoControllerFound
}

// ReadFixedOffsetRegister reads the single byte BIOS Control register
// from the supplied controller.
func ReadFixedOffsetRegister(cs pci.ConfigSpace, dev *pci.Device) (Register, error) {
	return ReadLocation(cs, FixedOffsetLocation(dev))
}

// FixedOffsetLocation returns the location of the BIOS Control register
// of a controller returned from FindController.
func FixedOffsetLocation(dev *pci.Device) Location {
	return Location{Address: dev.Address, Offset: FixedOffsetRegister, Width: pci.Byte}
}
