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

// Package pcitest provides a simulated PCI bus for tests.
package pcitest

import (
	"sync"

	"github.com/snapcore/spilpc/pci"
)

// MockDevice is a simulated PCI function.
type MockDevice struct {
	ID      pci.ID
	Config  [pci.ConfigSpaceSize]byte
	ReadErr error // returned from every config space read if set
}

// NewMockDevice returns a new function with the supplied vendor and
// device in the first dword of its config space.
func NewMockDevice(vendor, device uint16) *MockDevice {
	d := &MockDevice{ID: pci.ID{Vendor: vendor, Device: device}}
	d.Config[0] = byte(vendor)
	d.Config[1] = byte(vendor >> 8)
	d.Config[2] = byte(device)
	d.Config[3] = byte(device >> 8)
	return d
}

// SetConfig writes val to the device's config space at offset, using the
// specified width.
func (d *MockDevice) SetConfig(offset uint16, width pci.Width, val uint64) *MockDevice {
	for i := 0; i < int(width); i++ {
		d.Config[int(offset)+i] = byte(val >> (uint(i) * 8))
	}
	return d
}

// MockRead records a single config space read.
type MockRead struct {
	Address pci.Address
	Offset  uint16
	Width   pci.Width
}

// MockHostEnvironment is a simulated PCI bus and CPU.
type MockHostEnvironment struct {
	mu        sync.Mutex
	devices   map[pci.Address]*MockDevice
	vendor    string
	vendorErr error
	enumErr   error
	enums     int
	reads     []MockRead
}

// MockHostEnvironmentOption is an option supplied to
// NewMockHostEnvironment.
type MockHostEnvironmentOption func(*MockHostEnvironment)

// WithDevice adds a function at the specified address.
func WithDevice(addr pci.Address, dev *MockDevice) MockHostEnvironmentOption {
	return func(env *MockHostEnvironment) {
		env.devices[addr] = dev
	}
}

// WithCPUVendor sets the CPU vendor string. The default is "GenuineIntel".
func WithCPUVendor(vendor string) MockHostEnvironmentOption {
	return func(env *MockHostEnvironment) {
		env.vendor = vendor
	}
}

// WithCPUVendorError makes CPUVendorIdentificator return the supplied
// error.
func WithCPUVendorError(err error) MockHostEnvironmentOption {
	return func(env *MockHostEnvironment) {
		env.vendorErr = err
	}
}

// WithEnumerateDevicesError makes EnumerateDevices return the supplied
// error.
func WithEnumerateDevicesError(err error) MockHostEnvironmentOption {
	return func(env *MockHostEnvironment) {
		env.enumErr = err
	}
}

// NewMockHostEnvironment returns a new MockHostEnvironment.
func NewMockHostEnvironment(options ...MockHostEnvironmentOption) *MockHostEnvironment {
	env := &MockHostEnvironment{
		devices: make(map[pci.Address]*MockDevice),
		vendor:  "GenuineIntel",
	}
	for _, opt := range options {
		opt(env)
	}
	return env
}

// SetConfig updates the config space of the function at addr, to simulate
// firmware changing register values at runtime.
func (e *MockHostEnvironment) SetConfig(addr pci.Address, offset uint16, width pci.Width, val uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.devices[addr].SetConfig(offset, width, val)
}

// Reads returns a copy of every config space read made so far.
func (e *MockHostEnvironment) Reads() []MockRead {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]MockRead(nil), e.reads...)
}

// ReadConfig implements [pci.ConfigSpace.ReadConfig].
func (e *MockHostEnvironment) ReadConfig(addr pci.Address, offset uint16, width pci.Width) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reads = append(e.reads, MockRead{Address: addr, Offset: offset, Width: width})

	if err := pci.CheckAccess(offset, width); err != nil {
		return 0, &pci.BusReadError{Address: addr, Offset: offset, Width: width, Err: err}
	}
	dev, exists := e.devices[addr]
	if !exists {
		return 0, &pci.BusReadError{Address: addr, Offset: offset, Width: width, Err: pci.ErrNoDevice}
	}
	if dev.ReadErr != nil {
		return 0, &pci.BusReadError{Address: addr, Offset: offset, Width: width, Err: dev.ReadErr}
	}
	return pci.DecodeValue(dev.Config[offset:], width), nil
}

// Enumerations returns the number of calls to EnumerateDevices so far.
func (e *MockHostEnvironment) Enumerations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enums
}

// EnumerateDevices implements [pci.HostEnvironment.EnumerateDevices].
func (e *MockHostEnvironment) EnumerateDevices() ([]*pci.Device, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.enums++
	if e.enumErr != nil {
		return nil, e.enumErr
	}

	var devices []*pci.Device
	for addr, dev := range e.devices {
		devices = append(devices, &pci.Device{Address: addr, ID: dev.ID})
	}
	pci.SortDevices(devices)
	return devices, nil
}

// CPUVendorIdentificator implements [pci.HostEnvironment.CPUVendorIdentificator].
func (e *MockHostEnvironment) CPUVendorIdentificator() (string, error) {
	if e.vendorErr != nil {
		return "", e.vendorErr
	}
	return e.vendor, nil
}
