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

package bioscntl_test

import (
	"errors"

	. "gopkg.in/check.v1"

	. "github.com/snapcore/spilpc/bioscntl"
	"github.com/snapcore/spilpc/internal/pcitest"
	. "github.com/snapcore/spilpc/internal/testutil"
	"github.com/snapcore/spilpc/pci"
)

type fixedOffsetSuite struct{}

var _ = Suite(&fixedOffsetSuite{})

func (s *fixedOffsetSuite) TestFixedOffsetControllersTable(c *C) {
	c.Check(FixedOffsetControllers, HasLen, 41)
	c.Check(FixedOffsetControllers[0], DeepEquals, Controller{ID: pci.ID{Vendor: 0x8086, Device: 0x02a4}, Name: "Comet Lake SPI"})
	c.Check(FixedOffsetControllers[40], DeepEquals, Controller{ID: pci.ID{Vendor: 0x8086, Device: 0xa324}, Name: "Cannon Lake PCH SPI"})

	seen := make(map[pci.ID]bool)
	for _, ctrl := range FixedOffsetControllers {
		c.Check(ctrl.ID.Vendor, Equals, pci.VendorIntel)
		c.Check(seen[ctrl.ID], IsFalse, Commentf("duplicate %v", ctrl.ID))
		seen[ctrl.ID] = true
	}
}

func (s *fixedOffsetSuite) TestFindControllerSunrisePoint(c *C) {
	addr := pci.Address{Bus: 0, Device: 0x1f, Function: 0}
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(addr, pcitest.NewMockDevice(0x8086, 0x9d4e).SetConfig(0xdc, pci.Byte, 0x02)),
		pcitest.WithDevice(pci.Address{Device: 0x1f, Function: 3}, pcitest.NewMockDevice(0x8086, 0x9d71)),
	)

	dev, ctrl, err := FindController(env)
	c.Assert(err, IsNil)
	c.Check(dev, DeepEquals, &pci.Device{Address: addr, ID: pci.ID{Vendor: 0x8086, Device: 0x9d4e}})
	c.Check(ctrl.Name, Equals, "Sunrise Point LPC/eSPI")

	r, err := ReadFixedOffsetRegister(env, dev)
	c.Assert(err, IsNil)
	c.Check(r, Equals, Register(0x02))
	c.Check(r.WriteEnable(), IsFalse)
	c.Check(r.LockEnable(), IsTrue)
	c.Check(r.SMMBIOSWriteProtectDisable(), IsFalse)

	c.Check(env.Reads(), DeepEquals, []pcitest.MockRead{
		{Address: addr, Offset: 0xdc, Width: pci.Byte},
	})
}

func (s *fixedOffsetSuite) TestFindControllerListOrderWins(c *C) {
	// 0x9c66 comes before 0xa324 in the table
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(pci.Address{Device: 0x1f, Function: 5}, pcitest.NewMockDevice(0x8086, 0xa324)),
		pcitest.WithDevice(pci.Address{Device: 0x1f, Function: 0}, pcitest.NewMockDevice(0x8086, 0x9c66)),
	)

	dev, ctrl, err := FindController(env)
	c.Assert(err, IsNil)
	c.Check(dev.ID, Equals, pci.ID{Vendor: 0x8086, Device: 0x9c66})
	c.Check(ctrl.Name, Equals, "8 Series SPI")
}

func (s *fixedOffsetSuite) TestFindControllerEnumeratesOnce(c *C) {
	// The last entry in the table requires a scan of the whole list.
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(pci.Address{Device: 0x1f, Function: 5}, pcitest.NewMockDevice(0x8086, 0xa324)),
	)

	dev, ctrl, err := FindController(env)
	c.Assert(err, IsNil)
	c.Check(dev.ID, Equals, pci.ID{Vendor: 0x8086, Device: 0xa324})
	c.Check(ctrl.Name, Equals, "Cannon Lake PCH SPI")
	c.Check(env.Enumerations(), Equals, 1)
}

func (s *fixedOffsetSuite) TestFindControllerLowestAddress(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(pci.Address{Bus: 0x80, Device: 0x1f}, pcitest.NewMockDevice(0x8086, 0x9d4e)),
		pcitest.WithDevice(pci.Address{Device: 0x1f}, pcitest.NewMockDevice(0x8086, 0x9d4e)),
	)

	dev, _, err := FindController(env)
	c.Assert(err, IsNil)
	c.Check(dev.Address, Equals, pci.Address{Device: 0x1f})
}

func (s *fixedOffsetSuite) TestFindControllerNone(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(pci.Address{}, pcitest.NewMockDevice(0x8086, 0x1904)),
	)

	dev, ctrl, err := FindController(env)
	c.Check(err, Equals, ErrNoControllerFound)
	c.Check(dev, IsNil)
	c.Check(ctrl, IsNil)
}

func (s *fixedOffsetSuite) TestFindControllerEnumerationError(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithEnumerateDevicesError(errors.New("netlink failure")),
	)

	_, _, err := FindController(env)
	c.Check(err, ErrorMatches, `cannot enumerate PCI devices: netlink failure`)
}

func (s *fixedOffsetSuite) TestReadFixedOffsetRegisterBusError(c *C) {
	addr := pci.Address{Device: 0x1f}
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(addr, &pcitest.MockDevice{ReadErr: errors.New("I/O error")}),
	)

	_, err := ReadFixedOffsetRegister(env, &pci.Device{Address: addr})
	c.Check(err, ErrorMatches, `cannot read 1 byte\(s\) at offset 0xdc of PCI function 0000:00:1f.0: I/O error`)

	var e *pci.BusReadError
	c.Check(errors.As(err, &e), IsTrue)
}
