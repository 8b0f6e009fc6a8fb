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

// Package spilpc reports the BIOS write protection status of Intel
// platforms as a set of pseudo-files, each reflecting one bit of the live
// BIOS Control register.
package spilpc

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/snapcore/snapd/logger"
	"golang.org/x/xerrors"

	"github.com/snapcore/spilpc/bioscntl"
	"github.com/snapcore/spilpc/pci"
	"github.com/snapcore/spilpc/platform"
)

// Variant selects how the BIOS Control register is discovered.
type Variant string

const (
	// VariantAuto tries VariantPlatform first and falls back to
	// VariantFixedOffset if the platform cannot be identified or has no
	// known register location.
	VariantAuto Variant = "auto"

	// VariantPlatform identifies the CPU and PCH and looks up the register
	// location from those.
	VariantPlatform Variant = "platform"

	// VariantFixedOffset searches for one of a fixed list of LPC and SPI
	// controllers and reads the register at a fixed offset.
	VariantFixedOffset Variant = "fixed-offset"
)

// UnmarshalFlag implements flags.Unmarshaler.
func (v *Variant) UnmarshalFlag(value string) error {
	variant := Variant(value)
	if !variant.valid() {
		return fmt.Errorf("invalid variant %q", value)
	}
	*v = variant
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Variant) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return v.UnmarshalFlag(s)
}

func (v Variant) valid() bool {
	switch v {
	case VariantAuto, VariantPlatform, VariantFixedOffset:
		return true
	default:
		return false
	}
}

const intelVendorIdentificator = "GenuineIntel"

// PlatformContext is the result of platform discovery, which happens once
// at startup. It is immutable and safe to share between concurrent
// readers.
type PlatformContext struct {
	cs         pci.ConfigSpace
	variant    Variant
	identity   *platform.Identity
	controller *pci.Device
	location   bioscntl.Location
}

func checkCPUVendor(env pci.HostEnvironment) error {
	vendor, err := env.CPUVendorIdentificator()
	if err != nil {
		return &UnsupportedPlatformError{xerrors.Errorf("cannot determine CPU vendor: %w", err)}
	}
	if vendor != intelVendorIdentificator {
		return &UnsupportedPlatformError{fmt.Errorf("unsupported CPU vendor: %s", vendor)}
	}
	return nil
}

func newPlatformVariantContext(env pci.HostEnvironment) (*PlatformContext, error) {
	identity, err := platform.DetectPlatform(env)
	if err != nil {
		return nil, err
	}
	loc, err := bioscntl.Locate(identity)
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	logger.Noticef("detected %v, BIOS control register at %v", identity, loc)

	return &PlatformContext{
		cs:       env,
		variant:  VariantPlatform,
		identity: identity,
		location: loc,
	}, nil
}

func newFixedOffsetVariantContext(env pci.HostEnvironment) (*PlatformContext, error) {
	dev, ctrl, err := bioscntl.FindController(env)
	switch {
	case errors.Is(err, bioscntl.ErrNoControllerFound):
		return nil, &UnsupportedPlatformError{err}
	case err != nil:
		return nil, xerrors.Errorf("cannot find LPC or SPI controller: %w", err)
	}
	loc := bioscntl.FixedOffsetLocation(dev)
	logger.Noticef("found %s at %v, BIOS control register at %v", ctrl.Name, dev, loc)

	return &PlatformContext{
		cs:         env,
		variant:    VariantFixedOffset,
		controller: dev,
		location:   loc,
	}, nil
}

func isPlatformDiscoveryFailure(err error) bool {
	var de *platform.DetectionError
	var upe *UnsupportedPlatformError
	return errors.As(err, &de) || errors.As(err, &upe)
}

// NewPlatformContext discovers the BIOS Control register of the host using
// the requested variant. It returns a *UnsupportedPlatformError if the CPU
// is not an Intel CPU or if the register can't be found. For
// VariantPlatform, a *platform.DetectionError is returned if neither the
// CPU or PCH could be probed.
func NewPlatformContext(env pci.HostEnvironment, variant Variant) (*PlatformContext, error) {
	if err := checkCPUVendor(env); err != nil {
		return nil, err
	}

	switch variant {
	case VariantPlatform:
		return newPlatformVariantContext(env)
	case VariantFixedOffset:
		return newFixedOffsetVariantContext(env)
	case VariantAuto:
		ctx, err := newPlatformVariantContext(env)
		if err == nil {
			return ctx, nil
		}
		if !isPlatformDiscoveryFailure(err) {
			return nil, err
		}
		logger.Noticef("cannot use platform detection, trying fixed offset controllers: %v", err)

		ctx, fallbackErr := newFixedOffsetVariantContext(env)
		if fallbackErr == nil {
			return ctx, nil
		}
		if !isPlatformDiscoveryFailure(fallbackErr) {
			return nil, fallbackErr
		}

		errs := multierror.Append(nil, err, fallbackErr)
		errs.ErrorFormat = func(errs []error) string {
			return fmt.Sprintf("%v, and %v", errs[0], errs[1])
		}
		return nil, &UnsupportedPlatformError{errs}
	default:
		return nil, fmt.Errorf("invalid variant %q", variant)
	}
}

// Variant returns the discovery variant that was used, which is never
// VariantAuto.
func (c *PlatformContext) Variant() Variant {
	return c.variant
}

// Identity returns the detected platform for VariantPlatform, or nil.
func (c *PlatformContext) Identity() *platform.Identity {
	return c.identity
}

// Controller returns the controller that was found for
// VariantFixedOffset, or nil.
func (c *PlatformContext) Controller() *pci.Device {
	return c.controller
}

// Location returns the location of the BIOS Control register.
func (c *PlatformContext) Location() bioscntl.Location {
	return c.location
}

// ReadBIOSControl performs a fresh read of the BIOS Control register.
func (c *PlatformContext) ReadBIOSControl() (bioscntl.Register, error) {
	var (
		r   bioscntl.Register
		err error
	)
	switch c.variant {
	case VariantPlatform:
		r, err = bioscntl.ReadRegister(c.cs, c.identity)
	case VariantFixedOffset:
		r, err = bioscntl.ReadFixedOffsetRegister(c.cs, c.controller)
	default:
		panic("not reached")
	}
	if err != nil {
		return 0, xerrors.Errorf("cannot read BIOS control register: %w", err)
	}
	logger.Debugf("BIOS control register at %v: %#x", c.location, r)
	return r, nil
}

// ReadFlag performs a fresh read of the BIOS Control register and decodes
// the requested flag from it.
func (c *PlatformContext) ReadFlag(flag ProtectionFlag) (bool, error) {
	r, err := c.ReadBIOSControl()
	if err != nil {
		return false, err
	}
	return flag.Decode(r), nil
}
