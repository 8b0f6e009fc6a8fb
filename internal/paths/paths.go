// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2021 Canonical Ltd
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

package paths

import "path/filepath"

var (
	SysfsDir = "/sys"
	EtcDir   = "/etc"

	// PCIDevicesDir contains one directory per PCI function, named after
	// its slot (eg, 0000:00:1f.0), each with a binary config attribute.
	PCIDevicesDir = filepath.Join(SysfsDir, "bus/pci/devices")

	// ConfigFile is the default location of the YAML configuration file
	// read by spilpc-status.
	ConfigFile = filepath.Join(EtcDir, "spilpc/config.yaml")
)
