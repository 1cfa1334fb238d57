// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TrustByDesign/services/compliance/audit"
	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/trust"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

func sampleReport() Report {
	findings := []validator.Finding{
		{RuleID: "system.id", Status: validator.StatusPass, Severity: registry.SeverityError, Message: "system.id defined"},
		{RuleID: "capabilities.allowed", Status: validator.StatusFail, Severity: registry.SeverityError, Message: "no allowed capabilities"},
		{RuleID: "transparency.sources", Status: validator.StatusFail, Severity: registry.SeverityWarning, Message: "sources not cited"},
	}
	risks := []risk.Entry{
		{
			ID: "risk-001", Category: risk.CategoryPrivacy, Title: "PII exposure",
			Likelihood: risk.LikelihoodVeryHigh, Impact: risk.ImpactCritical,
			Detectability: risk.DetectabilityLow, Status: risk.StatusIdentified,
		},
		{
			ID: "risk-002", Category: risk.CategoryBias, Title: "Skewed outputs",
			Likelihood: risk.LikelihoodLow, Impact: risk.ImpactLow,
			Detectability: risk.DetectabilityHigh, Status: risk.StatusClosed,
		},
	}
	assessment := &trust.Assessment{
		DimensionScores: map[trust.Dimension]float64{
			trust.DimensionIdentity:     10,
			trust.DimensionContinuity:   10,
			trust.DimensionBehavioral:   8,
			trust.DimensionGovernance:   10,
			trust.DimensionTransparency: 9.5,
			trust.DimensionUserAgency:   7,
		},
		OverallScore: 9.08,
		Level:        trust.LevelExcellent,
	}

	return NewBuilder("Demo Assistant", "1.0.0").
		WithFindings(1, findings).
		WithRisks(risks, risk.DefaultBands()).
		WithTrust(assessment).
		AddNote("Reviewed by the safety board.").
		Build()
}

func TestMarkdownSections(t *testing.T) {
	md := sampleReport().Markdown()

	assert.Contains(t, md, "# Trust Report: Demo Assistant")
	assert.Contains(t, md, "**Version**: 1.0.0")
	assert.Contains(t, md, "## Executive Summary")
	assert.Contains(t, md, "## Compliance Findings")
	assert.Contains(t, md, "### Errors")
	assert.Contains(t, md, "**capabilities.allowed**")
	assert.Contains(t, md, "### Warnings")
	assert.Contains(t, md, "## Risk Assessment")
	assert.Contains(t, md, "### High Priority Risks")
	assert.Contains(t, md, "| risk-001 |")
	assert.Contains(t, md, "## Trust Assessment")
	assert.Contains(t, md, "## Additional Notes")
	assert.Contains(t, md, "Reviewed by the safety board.")
	assert.Contains(t, md, "## Recommendations")

	// Closed risks never show up as high priority.
	assert.NotContains(t, md, "| risk-002 |")
}

func TestMarkdownRecommendations(t *testing.T) {
	md := sampleReport().Markdown()
	assert.Contains(t, md, "Fix 1 compliance error(s)")
	assert.Contains(t, md, "URGENT: address 1 critical risk(s)")
}

func TestMarkdownCleanSystem(t *testing.T) {
	rpt := NewBuilder("Clean System", "2.0.0").
		WithFindings(1, []validator.Finding{
			{RuleID: "system.id", Status: validator.StatusPass, Severity: registry.SeverityError, Message: "ok"},
		}).
		Build()

	md := rpt.Markdown()
	assert.Contains(t, md, "All rules passed.")
	assert.Contains(t, md, "No urgent recommendations")
	assert.NotContains(t, md, "## Risk Assessment")
}

func TestMarkdownChainSection(t *testing.T) {
	seq := uint64(4)
	rpt := NewBuilder("Demo", "1.0.0").
		WithChain(audit.VerificationResult{
			Valid:      false,
			BreakAtSeq: &seq,
			Reason:     "entry hash mismatch, content was altered",
			Entries:    9,
		}).
		Build()

	md := rpt.Markdown()
	assert.Contains(t, md, "**Chain broken at seq 4**")
	assert.Contains(t, md, "Investigate the audit chain break")

	valid := NewBuilder("Demo", "1.0.0").
		WithChain(audit.VerificationResult{Valid: true, Entries: 9}).
		Build()
	assert.Contains(t, valid.Markdown(), "Chain valid over 9 entries.")
}

func TestMarkdownDeterministic(t *testing.T) {
	rpt := sampleReport()
	assert.Equal(t, rpt.Markdown(), rpt.Markdown())
}

func TestJSONRoundtrip(t *testing.T) {
	rpt := sampleReport()

	data, err := rpt.JSON()
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, rpt.SystemName, decoded.SystemName)
	assert.Equal(t, rpt.Compliance, decoded.Compliance)
	assert.Equal(t, rpt.Risks.OpenCount, decoded.Risks.OpenCount)
	assert.Len(t, decoded.Findings, 3)
}

func TestBuilderDefaultName(t *testing.T) {
	rpt := NewBuilder("", "").Build()
	assert.Equal(t, "AI System", rpt.SystemName)
	assert.False(t, rpt.GeneratedAt.IsZero())
}
