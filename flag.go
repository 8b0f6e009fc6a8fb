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

package spilpc

import (
	"fmt"

	"github.com/snapcore/spilpc/bioscntl"
)

// ProtectionFlag identifies one of the BIOS write protection bits that is
// published as a status entry.
type ProtectionFlag int

const (
	WriteEnable                ProtectionFlag = iota + 1 // BIOSWE
	LockEnable                                           // BLE
	SMMBIOSWriteProtectDisable                           // SMM_BWP
)

// AllProtectionFlags contains every flag, in publication order.
var AllProtectionFlags = []ProtectionFlag{WriteEnable, LockEnable, SMMBIOSWriteProtectDisable}

// EntryName returns the name of the status entry for this flag.
func (f ProtectionFlag) EntryName() string {
	switch f {
	case WriteEnable:
		return "bioswe"
	case LockEnable:
		return "ble"
	case SMMBIOSWriteProtectDisable:
		return "smm_bwp"
	default:
		panic("invalid protection flag")
	}
}

func (f ProtectionFlag) String() string {
	switch f {
	case WriteEnable, LockEnable, SMMBIOSWriteProtectDisable:
		return f.EntryName()
	default:
		return fmt.Sprintf("ProtectionFlag(%d)", int(f))
	}
}

// Decode returns the state of this flag from the supplied register value.
func (f ProtectionFlag) Decode(r bioscntl.Register) bool {
	switch f {
	case WriteEnable:
		return r.WriteEnable()
	case LockEnable:
		return r.LockEnable()
	case SMMBIOSWriteProtectDisable:
		return r.SMMBIOSWriteProtectDisable()
	default:
		panic("invalid protection flag")
	}
}

// ParseProtectionFlag returns the flag associated with the supplied entry
// name.
func ParseProtectionFlag(name string) (ProtectionFlag, error) {
	for _, f := range AllProtectionFlags {
		if f.EntryName() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown protection flag %q", name)
}

// FormatFlag renders a flag state in the format of a status entry, which is
// a single ASCII digit followed by a newline.
func FormatFlag(state bool) []byte {
	if state {
		return []byte("1\n")
	}
	return []byte("0\n")
}
