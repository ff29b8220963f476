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
// Package config holds the salutd settings: where to listen and how
// the greeter behaves.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the TCP port the greeter listens on unless told
	// otherwise.
	DefaultPort = 3000
)

// Config is the salutd configuration, as read from the YAML config file
// and adjusted from the command line.
type Config struct {
	// Address is the host part to bind; empty means all interfaces.
	Address string `yaml:"address"`
	// Port is the TCP port; 0 lets the kernel pick one.
	Port int `yaml:"port"`
	Debug bool `yaml:"debug"`

	// RequestsPerSecond limits the request rate when not 0.
	RequestsPerSecond float64 `yaml:"requests-per-second"`
	Burst             int     `yaml:"burst"`
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Port: DefaultPort,
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %v", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse config %q: %v", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency, filling in the
// burst when only a rate was given.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", c.Port)
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("requests-per-second cannot be negative")
	}
	if c.Burst < 0 {
		return errors.New("burst cannot be negative")
	}
	if c.RequestsPerSecond > 0 && c.Burst == 0 {
		c.Burst = 1
	}
	return nil
}

// ListenAddr is the host:port the greeter binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// URL returns the address a user would type to reach the listener
// bound at addr.
func URL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
