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

package platform_test

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/snapcore/snapd/logger"
	. "gopkg.in/check.v1"

	"github.com/snapcore/spilpc/internal/pcitest"
	. "github.com/snapcore/spilpc/internal/testutil"
	"github.com/snapcore/spilpc/pci"
	. "github.com/snapcore/spilpc/platform"
)

type detectSuite struct{}

var _ = Suite(&detectSuite{})

func (s *detectSuite) TestDetectPlatformSkylake(c *C) {
	logbuf, restore := logger.MockLogger()
	defer restore()

	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(CPUAddress, pcitest.NewMockDevice(0x8086, 0x1904)),
		pcitest.WithDevice(PCHAddress, pcitest.NewMockDevice(0x8086, 0xa144)),
	)

	identity, err := DetectPlatform(env)
	c.Assert(err, IsNil)
	c.Check(identity, DeepEquals, &Identity{
		CPU:   CPUSkylake,
		PCH:   PCH100Series,
		CPUID: pci.ID{Vendor: 0x8086, Device: 0x1904},
		PCHID: pci.ID{Vendor: 0x8086, Device: 0xa144},
	})
	c.Check(identity.Usable(), IsTrue)
	c.Check(identity.String(), Equals, "CPU skl (8086:1904), PCH pch_1xx (8086:a144)")

	c.Check(logbuf.String(), Matches, `(?s).*CPU VID: 8086 - DID: 1904\n.*PCH VID: 8086 - DID: a144\n`)

	c.Check(env.Reads(), DeepEquals, []pcitest.MockRead{
		{Address: CPUAddress, Offset: 0, Width: pci.Dword},
		{Address: PCHAddress, Offset: 0, Width: pci.Dword},
	})
}

func (s *detectSuite) TestDetectPlatformApolloLakeNoPCH(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(CPUAddress, pcitest.NewMockDevice(0x8086, 0x5af0)),
	)

	identity, err := DetectPlatform(env)
	c.Assert(err, IsNil)
	c.Check(identity.CPU, Equals, CPUApolloLake)
	c.Check(identity.PCH, Equals, PCHUnknown)
	c.Check(identity.PCHID, Equals, pci.ID{})
	c.Check(identity.Usable(), IsTrue)
}

func (s *detectSuite) TestDetectPlatformPCHOnly(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(CPUAddress, &pcitest.MockDevice{ReadErr: errors.New("I/O error")}),
		pcitest.WithDevice(PCHAddress, pcitest.NewMockDevice(0x8086, 0xa144)),
	)

	identity, err := DetectPlatform(env)
	c.Assert(err, IsNil)
	c.Check(identity.CPU, Equals, CPUUnknown)
	c.Check(identity.PCH, Equals, PCH100Series)
	c.Check(identity.Usable(), IsTrue)
}

func (s *detectSuite) TestDetectPlatformUnrecognized(c *C) {
	env := pcitest.NewMockHostEnvironment(
		pcitest.WithDevice(CPUAddress, pcitest.NewMockDevice(0x8086, 0xffff)),
		pcitest.WithDevice(PCHAddress, pcitest.NewMockDevice(0x8086, 0xffff)),
	)

	identity, err := DetectPlatform(env)
	c.Assert(err, IsNil)
	c.Check(identity.CPU, Equals, CPUUnknown)
	c.Check(identity.PCH, Equals, PCHUnknown)
	c.Check(identity.Usable(), IsFalse)
}

func (s *detectSuite) TestDetectPlatformBothReadsFail(c *C) {
	env := pcitest.NewMockHostEnvironment()

	_, err := DetectPlatform(env)
	c.Check(err, ErrorMatches, `cannot detect PCH or CPU: `+
		`cannot read CPU identifier: cannot read 4 byte\(s\) at offset 0x0 of PCI function 0000:00:00.0: no such PCI device; `+
		`cannot read PCH identifier: cannot read 4 byte\(s\) at offset 0x0 of PCI function 0000:00:1f.0: no such PCI device`)

	var de *DetectionError
	c.Assert(errors.As(err, &de), IsTrue)

	var merr *multierror.Error
	c.Assert(errors.As(err, &merr), IsTrue)
	c.Check(merr.Errors, HasLen, 2)

	var be *pci.BusReadError
	c.Assert(errors.As(err, &be), IsTrue)
	c.Check(be.Address, Equals, CPUAddress)
	c.Check(err, ErrorIs, pci.ErrNoDevice)
}
