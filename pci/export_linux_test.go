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
	"os"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"
	"golang.org/x/sys/unix"
)

func MockCrawlerExistingDevices(fn func(chan crawler.Device, chan error, netlink.Matcher) chan struct{}) (restore func()) {
	orig := crawlerExistingDevices
	crawlerExistingDevices = fn
	return func() {
		crawlerExistingDevices = orig
	}
}

func MockOsOpen(fn func(string) (*os.File, error)) (restore func()) {
	orig := osOpen
	osOpen = fn
	return func() {
		osOpen = orig
	}
}

func MockUnixCapget(fn func(*unix.CapUserHeader, *unix.CapUserData) error) (restore func()) {
	orig := unixCapget
	unixCapget = fn
	return func() {
		unixCapget = orig
	}
}
