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

// Package platform identifies the Intel CPU and PCH that a host is built
// on, which determines where its BIOS control register lives.
package platform

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/snapcore/snapd/logger"

	"github.com/snapcore/spilpc/pci"
)

var (
	// CPUAddress is the location of the host bridge, which identifies
	// the CPU.
	CPUAddress = pci.Address{Bus: 0, Device: 0, Function: 0}

	// PCHAddress is the location of the LPC or eSPI bridge, which
	// identifies the PCH.
	PCHAddress = pci.Address{Bus: 0, Device: 0x1f, Function: 0}
)

// Identity is the result of platform detection. Either architecture may be
// unknown.
type Identity struct {
	CPU   CPUArchitecture
	PCH   PCHArchitecture
	CPUID pci.ID // the zero value if it couldn't be read
	PCHID pci.ID // the zero value if it couldn't be read
}

// Usable indicates whether at least one of the CPU or PCH was recognized.
func (i *Identity) Usable() bool {
	return i.CPU != CPUUnknown || i.PCH != PCHUnknown
}

func (i *Identity) String() string {
	return fmt.Sprintf("CPU %v (%v), PCH %v (%v)", i.CPU, i.CPUID, i.PCH, i.PCHID)
}

// DetectionError is returned from DetectPlatform if neither the CPU nor
// the PCH identifier could be read from the bus. It wraps both errors.
type DetectionError struct {
	err *multierror.Error
}

func (e *DetectionError) Error() string {
	return "cannot detect PCH or CPU: " + e.err.Error()
}

func (e *DetectionError) Unwrap() error {
	return e.err
}

func joinErrors(errs []error) string {
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// DetectPlatform reads the identifier pairs of the host bridge and the
// LPC / eSPI bridge and classifies each. It only fails if neither can be
// read. A pair that is read but not recognized just results in an
// unknown architecture.
func DetectPlatform(cs pci.ConfigSpace) (*Identity, error) {
	var (
		identity Identity
		errs     *multierror.Error
		failed   int
	)

	cpuID, err := pci.ReadID(cs, CPUAddress)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("cannot read CPU identifier: %w", err))
		failed++
	} else {
		logger.Noticef("CPU VID: %x - DID: %x", cpuID.Vendor, cpuID.Device)
		identity.CPUID = cpuID
		identity.CPU = ResolveCPU(cpuID)
	}

	pchID, err := pci.ReadID(cs, PCHAddress)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("cannot read PCH identifier: %w", err))
		failed++
	} else {
		logger.Noticef("PCH VID: %x - DID: %x", pchID.Vendor, pchID.Device)
		identity.PCHID = pchID
		identity.PCH = ResolvePCH(pchID)
	}

	if failed == 2 {
		errs.ErrorFormat = joinErrors
		return nil, &DetectionError{err: errs}
	}
	if errs != nil {
		logger.Debugf("ignoring partial platform detection failure: %v", joinErrors(errs.Errors))
	}

	return &identity, nil
}
