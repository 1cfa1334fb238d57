// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package risk

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileEntry is the on-disk shape of one risk. Enum fields are validated
// structurally before conversion so a typo in a risk file surfaces as a
// flagged entry rather than a zero-score risk.
type fileEntry struct {
	ID            string   `yaml:"id" validate:"required"`
	Category      string   `yaml:"category" validate:"required,oneof=hallucination privacy bias autonomy_overreach misuse data_quality security performance compliance other"`
	Title         string   `yaml:"title" validate:"required"`
	Description   string   `yaml:"description"`
	Likelihood    string   `yaml:"likelihood" validate:"required,oneof=very_low low medium high very_high"`
	Impact        string   `yaml:"impact" validate:"required,oneof=low medium high critical"`
	Detectability string   `yaml:"detectability" validate:"omitempty,oneof=high medium low"`
	Status        string   `yaml:"status" validate:"omitempty,oneof=identified analyzing mitigating monitoring accepted closed"`
	Owner         string   `yaml:"owner"`
	Mitigations   []string `yaml:"mitigations"`
}

type riskFile struct {
	Risks []fileEntry `yaml:"risks"`
}

// LoadResult holds the outcome of parsing a risk file. Invalid entries
// are reported under Failures; they do not abort the load.
type LoadResult struct {
	// Entries are the structurally valid risks, in file order.
	Entries []Entry

	// Failures describe entries that failed validation.
	Failures []Failure
}

var fileValidate = validator.New(validator.WithRequiredStructEnabled())

// ParseYAML parses a risk register file from YAML bytes.
//
// # Description
//
// The file holds a top-level "risks" list. Each entry is validated
// independently; an entry with a missing or out-of-enum field is
// recorded as a Failure and skipped while the rest still load. Only a
// malformed document as a whole produces an error.
//
// # Inputs
//
//   - data: Raw YAML bytes.
//
// # Outputs
//
//   - *LoadResult: Valid entries plus per-entry failures.
//   - error: Non-nil only if the YAML itself cannot be parsed.
func ParseYAML(data []byte) (*LoadResult, error) {
	var file riskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal risk file: %w", err)
	}

	result := &LoadResult{Entries: make([]Entry, 0, len(file.Risks))}
	for i, raw := range file.Risks {
		if err := fileValidate.Struct(raw); err != nil {
			id := raw.ID
			if id == "" {
				id = fmt.Sprintf("risks[%d]", i)
			}
			result.Failures = append(result.Failures, Failure{
				ID:     id,
				Reason: fmt.Sprintf("invalid risk entry: %v", err),
			})
			continue
		}
		result.Entries = append(result.Entries, toEntry(raw))
	}
	return result, nil
}

// LoadFile reads and parses a risk register file from disk.
func LoadFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk file %s: %w", path, err)
	}
	return ParseYAML(data)
}

func toEntry(raw fileEntry) Entry {
	e := Entry{
		ID:            raw.ID,
		Category:      Category(raw.Category),
		Title:         raw.Title,
		Description:   raw.Description,
		Likelihood:    Likelihood(raw.Likelihood),
		Impact:        Impact(raw.Impact),
		Detectability: Detectability(raw.Detectability),
		Status:        Status(raw.Status),
		Owner:         raw.Owner,
		Mitigations:   raw.Mitigations,
	}
	if e.Detectability == "" {
		e.Detectability = DetectabilityMedium
	}
	if e.Status == "" {
		e.Status = StatusIdentified
	}
	return e
}
