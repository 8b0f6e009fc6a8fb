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
	"io"
	"io/ioutil"
	"os"

	"github.com/snapcore/snapd/osutil"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/snapcore/spilpc/internal/paths"
)

// Config is the configuration of the status surface.
type Config struct {
	// Variant is the register discovery variant. The default is
	// VariantAuto.
	Variant Variant `yaml:"variant"`

	// Root is the name of the directory that entries are published in.
	// If empty, DefaultRoot is used with the variant that was resolved at
	// startup.
	Root string `yaml:"root,omitempty"`

	// Flags is the set of flags to publish. If empty, every flag is
	// published.
	Flags []ProtectionFlag `yaml:"flags,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *ProtectionFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	flag, err := ParseProtectionFlag(s)
	if err != nil {
		return err
	}
	*f = flag
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f ProtectionFlag) MarshalYAML() (interface{}, error) {
	return f.EntryName(), nil
}

// DefaultConfig returns the configuration used when there is no
// configuration file.
func DefaultConfig() *Config {
	return &Config{Variant: VariantAuto}
}

// RootFor returns the directory name to publish entries in for a
// platform context that was created with this configuration.
func (c *Config) RootFor(ctx *PlatformContext) string {
	if c.Root != "" {
		return c.Root
	}
	return DefaultRoot(ctx.Variant())
}

// ReadConfig decodes a configuration from the supplied reader. Fields that
// are omitted take their default values.
func ReadConfig(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("cannot read configuration: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, xerrors.Errorf("cannot decode configuration: %w", err)
	}
	if config.Variant == "" {
		config.Variant = VariantAuto
	}

	seen := make(map[ProtectionFlag]bool)
	for _, flag := range config.Flags {
		if seen[flag] {
			return nil, fmt.Errorf("invalid configuration: flag %v specified more than once", flag)
		}
		seen[flag] = true
	}

	return config, nil
}

// LoadConfig reads the configuration file at the specified path. If path
// is empty, the default configuration file is used, and a missing default
// file results in the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = paths.ConfigFile
		if !osutil.FileExists(path) {
			return DefaultConfig(), nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("cannot open configuration file: %w", err)
	}
	defer f.Close()

	return ReadConfig(f)
}
