// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config defines the declared system configuration that compliance
// validation runs against.
//
// A SystemConfig is the structured self-declaration a deployed AI system
// submits for validation: identity, capability boundaries, and the
// compliance checks it claims to implement. The engine never reads this
// from the network; a surrounding CLI or service loads it (YAML or JSON)
// and hands it to the validator as an in-memory structure.
package config

import (
	"strings"
)

// SystemInfo identifies the system under validation.
type SystemInfo struct {
	// ID is the unique system identifier.
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable system name.
	Name string `yaml:"name" json:"name"`

	// Version is the declared system version.
	Version string `yaml:"version" json:"version"`
}

// Capabilities declares what the system may and may not do.
type Capabilities struct {
	// Allowed lists capabilities the system is permitted to use.
	Allowed []string `yaml:"allowed" json:"allowed"`

	// Prohibited lists actions the system must never take.
	Prohibited []string `yaml:"prohibited" json:"prohibited"`
}

// Boundaries declares operational limits and scope.
type Boundaries struct {
	// Limits holds resource limits (rate, memory, session length, ...).
	Limits map[string]any `yaml:"limits" json:"limits"`

	// Scope describes the operational scope of the system.
	Scope map[string]any `yaml:"scope" json:"scope"`
}

// Governance declares oversight structure for autonomous systems.
type Governance struct {
	// ExternalAudit indicates whether external audit is configured.
	ExternalAudit bool `yaml:"external_audit" json:"external_audit"`

	// Declaration references the governance declaration document.
	Declaration string `yaml:"declaration" json:"declaration,omitempty"`
}

// SystemConfig is the full declared configuration of a system.
//
// # Description
//
// The typed fields cover the sections the default rule set inspects.
// Raw preserves the complete decoded document so rules can address any
// field by dotted path, including deployment-specific extensions the
// typed model does not know about.
//
// # Thread Safety
//
// SystemConfig is immutable after loading. Safe for concurrent reads.
type SystemConfig struct {
	System       SystemInfo                `yaml:"system" json:"system"`
	Capabilities Capabilities              `yaml:"capabilities" json:"capabilities"`
	Boundaries   Boundaries                `yaml:"boundaries" json:"boundaries"`
	Checks       map[string]map[string]any `yaml:"compliance_checks" json:"compliance_checks"`
	Governance   *Governance               `yaml:"governance" json:"governance,omitempty"`

	// Raw is the complete decoded document. Rule predicates resolve
	// dotted paths against this map, never against the typed fields,
	// so a config and its validation findings always agree.
	Raw map[string]any `yaml:"-" json:"-"`
}

// Lookup resolves a dotted path ("system.id", "boundaries.limits") against
// the raw document.
//
// # Inputs
//
//   - path: Dot-separated field path. Must be non-empty.
//
// # Outputs
//
//   - any: The value at the path, or nil if absent.
//   - bool: True if every segment of the path exists.
func (c *SystemConfig) Lookup(path string) (any, bool) {
	if c == nil || c.Raw == nil || path == "" {
		return nil, false
	}

	var current any = c.Raw
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Empty reports whether the config carries no declared fields at all.
func (c *SystemConfig) Empty() bool {
	return c == nil || len(c.Raw) == 0
}
