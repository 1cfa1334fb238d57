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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRiskYAML = `
risks:
  - id: risk-001
    category: hallucination
    title: Model fabricates citations
    likelihood: medium
    impact: high
    detectability: low
    status: mitigating
    owner: ml-team
    mitigations:
      - citation verification pass
  - id: risk-002
    category: privacy
    title: PII retained past retention window
    likelihood: low
    impact: critical
  - id: risk-003
    category: privacy
    title: Bad entry
    likelihood: sometimes
    impact: high
`

func TestParseYAMLRiskFile(t *testing.T) {
	result, err := ParseYAML([]byte(sampleRiskYAML))
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	require.Len(t, result.Failures, 1)

	first := result.Entries[0]
	assert.Equal(t, "risk-001", first.ID)
	assert.Equal(t, CategoryHallucination, first.Category)
	assert.Equal(t, LikelihoodMedium, first.Likelihood)
	assert.Equal(t, DetectabilityLow, first.Detectability)
	assert.Equal(t, StatusMitigating, first.Status)
	assert.Equal(t, []string{"citation verification pass"}, first.Mitigations)

	// Omitted fields get defaults.
	second := result.Entries[1]
	assert.Equal(t, DetectabilityMedium, second.Detectability)
	assert.Equal(t, StatusIdentified, second.Status)

	assert.Equal(t, "risk-003", result.Failures[0].ID)
	assert.Contains(t, result.Failures[0].Reason, "invalid risk entry")
}

func TestParseYAMLMissingRequiredFields(t *testing.T) {
	result, err := ParseYAML([]byte(`
risks:
  - category: privacy
    likelihood: low
    impact: low
`))
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "risks[0]", result.Failures[0].ID)
}

func TestParseYAMLMalformed(t *testing.T) {
	_, err := ParseYAML([]byte("risks: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRiskYAML), 0644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
