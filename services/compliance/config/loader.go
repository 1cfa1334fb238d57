// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a configuration file (YAML or JSON, by extension) into a
// SystemConfig.
//
// # Description
//
// The decoded document is kept twice: once as the typed model and once as
// the raw map the validator resolves rule paths against. A config with
// missing sections loads successfully; completeness is the validator's
// concern, not the loader's (a missing required field is a finding, not a
// load error).
//
// # Inputs
//
//   - path: Path to a .yaml, .yml or .json file.
//
// # Outputs
//
//   - *SystemConfig: The loaded configuration.
//   - error: Non-nil if the file cannot be read or parsed.
func Load(path string) (*SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return ParseYAML(data)
	case strings.HasSuffix(path, ".json"):
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %s (want .yaml, .yml or .json)", path)
	}
}

// ParseYAML decodes a YAML configuration document.
func ParseYAML(data []byte) (*SystemConfig, error) {
	var cfg SystemConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.Raw = raw

	return &cfg, nil
}

// ParseJSON decodes a JSON configuration document.
func ParseJSON(data []byte) (*SystemConfig, error) {
	var cfg SystemConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}
	cfg.Raw = raw

	return &cfg, nil
}

// FromMap wraps an already-decoded document as a SystemConfig.
//
// Callers embedding the engine (rather than going through a file) can hand
// over any map-shaped config; typed fields are left zero and rules resolve
// against the map directly.
func FromMap(raw map[string]any) *SystemConfig {
	return &SystemConfig{Raw: raw}
}
