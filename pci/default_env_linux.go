//go:build linux

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

package pci

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"
	"github.com/snapcore/spilpc/internal/paths"
	"golang.org/x/sys/unix"
)

// unprivilegedConfigSize is how much of config space the kernel exposes
// via sysfs to processes without CAP_SYS_ADMIN.
const unprivilegedConfigSize = 64

var (
	crawlerExistingDevices = crawler.ExistingDevices
	osOpen                 = os.Open
	unixCapget             = unix.Capget
)

func hasCapSysAdmin() (bool, error) {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unixCapget(&hdr, &data[0]); err != nil {
		return false, fmt.Errorf("cannot obtain process capabilities: %w", err)
	}
	return data[unix.CAP_SYS_ADMIN/32].Effective&(1<<(unix.CAP_SYS_ADMIN%32)) != 0, nil
}

// RequireCapSysAdmin returns ErrNoCapSysAdmin if the current process does
// not have CAP_SYS_ADMIN in its effective set.
func RequireCapSysAdmin() error {
	ok, err := hasCapSysAdmin()
	switch {
	case err != nil:
		return err
	case !ok:
		return ErrNoCapSysAdmin
	}
	return nil
}

// ReadConfig implements [ConfigSpace.ReadConfig].
func (defaultEnvImpl) ReadConfig(addr Address, offset uint16, width Width) (uint64, error) {
	val, err := func() (uint64, error) {
		if err := CheckAccess(offset, width); err != nil {
			return 0, err
		}
		if int(offset)+int(width) > unprivilegedConfigSize {
			if err := RequireCapSysAdmin(); err != nil {
				return 0, err
			}
		}

		f, err := osOpen(filepath.Join(paths.PCIDevicesDir, addr.String(), "config"))
		switch {
		case os.IsNotExist(err):
			return 0, ErrNoDevice
		case err != nil:
			return 0, err
		}
		defer f.Close()

		data := make([]byte, width)
		n, err := f.ReadAt(data, int64(offset))
		switch {
		case n == len(data):
			// ReadAt may return io.EOF with a full read at the end of the file.
		case err == nil, errors.Is(err, io.EOF):
			return 0, fmt.Errorf("short read (%d bytes)", n)
		default:
			return 0, err
		}

		return DecodeValue(data, width), nil
	}()
	if err != nil {
		return 0, &BusReadError{Address: addr, Offset: offset, Width: width, Err: err}
	}
	return val, nil
}

// EnumerateDevices implements [HostEnvironment.EnumerateDevices]. The
// whole of sysfs is walked once per call.
func (defaultEnvImpl) EnumerateDevices() ([]*Device, error) {
	queue := make(chan crawler.Device)
	errs := make(chan error, 1)
	quit := crawlerExistingDevices(queue, errs, &netlink.RuleDefinition{
		Env: map[string]string{"SUBSYSTEM": "pci"},
	})

	// abort stops the walk and waits for the crawler to close the queue.
	abort := func() {
		select {
		case quit <- struct{}{}:
		default:
		}
		for range queue {
		}
	}

	var devices []*Device

	for {
		select {
		case dev, more := <-queue:
			if !more {
				select {
				case err := <-errs:
					return nil, fmt.Errorf("cannot enumerate PCI devices: %w", err)
				default:
				}
				SortDevices(devices)
				return devices, nil
			}
			if dev.Env["SUBSYSTEM"] != "pci" {
				continue
			}
			addr, err := ParseAddress(dev.Env["PCI_SLOT_NAME"])
			if err != nil {
				abort()
				return nil, fmt.Errorf("cannot decode slot name of %s: %w", dev.KObj, err)
			}
			id, err := ParseID(dev.Env["PCI_ID"])
			if err != nil {
				abort()
				return nil, fmt.Errorf("cannot decode ID of %s: %w", dev.KObj, err)
			}
			devices = append(devices, &Device{Address: addr, ID: id})
		case err := <-errs:
			abort()
			return nil, fmt.Errorf("cannot enumerate PCI devices: %w", err)
		}
	}
}
