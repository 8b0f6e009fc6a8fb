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

package spilpc_test

import (
	. "gopkg.in/check.v1"

	. "github.com/snapcore/spilpc"
	"github.com/snapcore/spilpc/bioscntl"
	. "github.com/snapcore/spilpc/internal/testutil"
)

type flagSuite struct{}

var _ = Suite(&flagSuite{})

func (s *flagSuite) TestEntryName(c *C) {
	c.Check(WriteEnable.EntryName(), Equals, "bioswe")
	c.Check(LockEnable.EntryName(), Equals, "ble")
	c.Check(SMMBIOSWriteProtectDisable.EntryName(), Equals, "smm_bwp")
	c.Check(func() { ProtectionFlag(0).EntryName() }, PanicMatches, `invalid protection flag`)
}

func (s *flagSuite) TestString(c *C) {
	c.Check(LockEnable.String(), Equals, "ble")
	c.Check(ProtectionFlag(9).String(), Equals, "ProtectionFlag(9)")
}

func (s *flagSuite) TestDecodeAllByteValues(c *C) {
	for i := 0; i < 256; i++ {
		r := bioscntl.Register(i)
		c.Check(WriteEnable.Decode(r), Equals, i&0x01 != 0)
		c.Check(LockEnable.Decode(r), Equals, i&0x02 != 0)
		c.Check(SMMBIOSWriteProtectDisable.Decode(r), Equals, i&0x20 != 0)
	}
}

func (s *flagSuite) TestDecodeScenarios(c *C) {
	for _, flag := range AllProtectionFlags {
		c.Check(flag.Decode(0x23), IsTrue)
		c.Check(flag.Decode(0x00), IsFalse)
	}
	c.Check(WriteEnable.Decode(0x02), IsFalse)
	c.Check(LockEnable.Decode(0x02), IsTrue)
}

func (s *flagSuite) TestParseProtectionFlag(c *C) {
	for _, flag := range AllProtectionFlags {
		parsed, err := ParseProtectionFlag(flag.EntryName())
		c.Check(err, IsNil)
		c.Check(parsed, Equals, flag)
	}
	_, err := ParseProtectionFlag("bios_we")
	c.Check(err, ErrorMatches, `unknown protection flag "bios_we"`)
}

func (s *flagSuite) TestFormatFlag(c *C) {
	c.Check(FormatFlag(true), DeepEquals, []byte("1\n"))
	c.Check(FormatFlag(false), DeepEquals, []byte("0\n"))
}
