// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trust

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

func failFinding(ruleID string, severity registry.Severity) validator.Finding {
	return validator.Finding{
		RuleID:   ruleID,
		Status:   validator.StatusFail,
		Severity: severity,
		Message:  "failed",
	}
}

func TestAssessCleanSystem(t *testing.T) {
	a := NewAssessor(nil)

	assessment, err := a.Assess(context.Background(), nil, risk.Summary{})
	require.NoError(t, err)

	for _, d := range Dimensions {
		assert.Equal(t, 10.0, assessment.DimensionScores[d], "dimension %s", d)
	}
	assert.Equal(t, 10.0, assessment.OverallScore)
	assert.Equal(t, LevelExcellent, assessment.Level)
	assert.NotEmpty(t, assessment.ID)
	assert.False(t, assessment.ComputedAt.IsZero())
}

// TestAssessErrorDeduction verifies one failed error rule deducts 2.0
// from its mapped dimension and nothing else.
func TestAssessErrorDeduction(t *testing.T) {
	a := NewAssessor(nil)

	findings := []validator.Finding{
		failFinding("capabilities.allowed", registry.SeverityError),
	}
	assessment, err := a.Assess(context.Background(), findings, risk.Summary{})
	require.NoError(t, err)

	assert.Equal(t, 8.0, assessment.DimensionScores[DimensionBehavioral])
	assert.Equal(t, 10.0, assessment.DimensionScores[DimensionIdentity])
	assert.InDelta(t, 58.0/6.0, assessment.OverallScore, 1e-9)
}

func TestAssessWarningDeduction(t *testing.T) {
	a := NewAssessor(nil)

	findings := []validator.Finding{
		failFinding("transparency.sources", registry.SeverityWarning),
	}
	assessment, err := a.Assess(context.Background(), findings, risk.Summary{})
	require.NoError(t, err)

	assert.Equal(t, 9.5, assessment.DimensionScores[DimensionTransparency])
}

func TestAssessPassingFindingsDoNotAdd(t *testing.T) {
	a := NewAssessor(nil)

	findings := []validator.Finding{
		{RuleID: "system.id", Status: validator.StatusPass, Severity: registry.SeverityError},
		{RuleID: "system.name", Status: validator.StatusPass, Severity: registry.SeverityError},
	}
	assessment, err := a.Assess(context.Background(), findings, risk.Summary{})
	require.NoError(t, err)
	assert.Equal(t, 10.0, assessment.DimensionScores[DimensionIdentity])
}

// TestAssessRiskDeduction verifies risk exposure deducts per dimension,
// capped at 3.0.
func TestAssessRiskDeduction(t *testing.T) {
	a := NewAssessor(nil)

	risks := risk.Summary{
		ByCategory: map[risk.Category]float64{
			risk.CategoryPrivacy:       40, // min(3, 4.0) = 3.0 from user_agency
			risk.CategoryHallucination: 5,  // 0.5 from transparency
		},
	}
	assessment, err := a.Assess(context.Background(), nil, risks)
	require.NoError(t, err)

	assert.Equal(t, 7.0, assessment.DimensionScores[DimensionUserAgency])
	assert.Equal(t, 9.5, assessment.DimensionScores[DimensionTransparency])
	assert.Equal(t, 10.0, assessment.DimensionScores[DimensionGovernance])
}

// TestAssessRiskDeductionSumsCategories verifies categories mapped to
// the same dimension are summed before the per-dimension cap applies,
// so one dimension never loses more than 3.0 to risk exposure.
func TestAssessRiskDeductionSumsCategories(t *testing.T) {
	a := NewAssessor(nil)

	risks := risk.Summary{
		ByCategory: map[risk.Category]float64{
			risk.CategoryBias:   40, // both map to behavioral
			risk.CategoryMisuse: 40,
		},
	}
	assessment, err := a.Assess(context.Background(), nil, risks)
	require.NoError(t, err)

	// min(3, 80/10) = 3.0, deducted once.
	assert.InDelta(t, 7.0, assessment.DimensionScores[DimensionBehavioral], 1e-9)
}

// TestAssessClampAtZero verifies stacked deductions never push a
// dimension below zero.
func TestAssessClampAtZero(t *testing.T) {
	a := NewAssessor(nil)

	var findings []validator.Finding
	for i := 0; i < 8; i++ {
		findings = append(findings, failFinding("governance.structure", registry.SeverityError))
	}
	assessment, err := a.Assess(context.Background(), findings, risk.Summary{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, assessment.DimensionScores[DimensionGovernance])
	assert.GreaterOrEqual(t, assessment.OverallScore, 0.0)
}

func TestAssessDeterministic(t *testing.T) {
	a := NewAssessor(nil)
	findings := []validator.Finding{
		failFinding("consent.revocable", registry.SeverityError),
		failFinding("audit.retention_policy", registry.SeverityWarning),
	}
	risks := risk.Summary{ByCategory: map[risk.Category]float64{risk.CategoryBias: 12}}

	first, err := a.Assess(context.Background(), findings, risks)
	require.NoError(t, err)
	second, err := a.Assess(context.Background(), findings, risks)
	require.NoError(t, err)

	assert.Equal(t, first.DimensionScores, second.DimensionScores)
	assert.Equal(t, first.OverallScore, second.OverallScore)
}

func TestLevelBoundaries(t *testing.T) {
	assert.Equal(t, LevelExcellent, LevelFor(8.5))
	assert.Equal(t, LevelHigh, LevelFor(8.49))
	assert.Equal(t, LevelHigh, LevelFor(6.5))
	assert.Equal(t, LevelMedium, LevelFor(6.49))
	assert.Equal(t, LevelMedium, LevelFor(4.0))
	assert.Equal(t, LevelLow, LevelFor(3.99))
}

func TestDimensionMappings(t *testing.T) {
	assert.Equal(t, DimensionIdentity, DimensionForRule("system.id"))
	assert.Equal(t, DimensionBehavioral, DimensionForRule("capabilities.allowed"))
	assert.Equal(t, DimensionUserAgency, DimensionForRule("memory_safety.user_can_delete_all"))
	assert.Equal(t, DimensionContinuity, DimensionForRule("memory_safety.deletion_is_complete"))
	assert.Equal(t, DimensionGovernance, DimensionForRule("audit.structured_format"))

	// Unmapped rules fall back to governance.
	assert.Equal(t, DimensionGovernance, DimensionForRule("custom.unknown"))

	assert.Equal(t, DimensionIdentity, DimensionForCategory(risk.CategorySecurity))
	assert.Equal(t, DimensionGovernance, DimensionForCategory(risk.Category("novel")))
}
