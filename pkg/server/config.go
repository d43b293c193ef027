// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net"
	"strconv"
	"time"

	"github.com/NVIDIA/triage/pkg/defaults"
)

// Config describes how the analysis API is exposed.
type Config struct {
	// Name and Version are reported by /health and logged at startup.
	Name    string
	Version string

	// Address and Port form the listen address. An empty Address listens
	// on every interface.
	Address string
	Port    int

	// RequestsPerSecond and Burst shape the token bucket shared by every
	// API route. Probes and /metrics are never limited.
	RequestsPerSecond float64
	Burst             int

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// ShutdownTimeout bounds the drain of in-flight analyses.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the configuration `triage serve` starts from.
func DefaultConfig() Config {
	return Config{
		Name:              "triage",
		Version:           "dev",
		Port:              8080,
		RequestsPerSecond: 10,
		Burst:             20,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

func (c Config) validate() map[string]any {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return map[string]any{"port": c.Port}
	case c.RequestsPerSecond <= 0 || c.Burst < 1:
		return map[string]any{"requestsPerSecond": c.RequestsPerSecond, "burst": c.Burst}
	}
	return nil
}
