// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package trust derives a multi-dimensional trust assessment from
// validation findings and the live risk register.
//
// Each of the six dimensions starts at a perfect 10.0 and takes
// deductions for failed compliance rules and open risk exposure mapped
// onto it. The overall score is the unweighted mean of the dimensions.
// Assessment is a pure computation: the same findings and risk summary
// always produce the same scores.
package trust

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/telemetry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

// Deduction weights per failed finding and the cap on risk-driven
// deductions per dimension.
const (
	errorDeduction   = 2.0
	warningDeduction = 0.5
	maxRiskDeduction = 3.0
	riskDivisor      = 10.0

	maxDimensionScore = 10.0
)

// Level is the qualitative trust classification.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelHigh      Level = "high"
	LevelMedium    Level = "medium"
	LevelLow       Level = "low"
)

// LevelFor classifies an overall score.
func LevelFor(score float64) Level {
	switch {
	case score >= 8.5:
		return LevelExcellent
	case score >= 6.5:
		return LevelHigh
	case score >= 4.0:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Assessment is the result of one trust computation.
type Assessment struct {
	// ID uniquely identifies this assessment.
	ID string `json:"id"`

	// DimensionScores holds the clamped per-dimension scores.
	DimensionScores map[Dimension]float64 `json:"dimension_scores"`

	// OverallScore is the unweighted mean of the dimension scores.
	OverallScore float64 `json:"overall_score"`

	// Level is the qualitative classification of the overall score.
	Level Level `json:"level"`

	// ComputedAt is when the assessment was produced, UTC.
	ComputedAt time.Time `json:"computed_at"`
}

// Assessor computes trust assessments.
//
// # Thread Safety
//
// Safe for concurrent use; the assessor holds no mutable state.
type Assessor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAssessor creates an Assessor. A nil logger disables logging.
func NewAssessor(logger *slog.Logger) *Assessor {
	return &Assessor{logger: logger, now: time.Now}
}

// Assess computes the trust assessment for one system.
//
// # Description
//
// Every dimension starts at 10.0. Each failed error finding deducts 2.0
// and each failed warning finding deducts 0.5 from the dimension its
// rule maps to. Open risk exposure is summed per dimension across every
// category mapped to it, then deducts min(3.0, dimensionTotal/10) once
// per dimension. Dimensions are clamped to [0, 10] after all
// deductions; passing findings never add score. Closed risks contribute
// nothing.
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - findings: Validation findings, typically from validator.Validate.
//   - risks: Live risk summary, typically from risk.Aggregate.
//
// # Outputs
//
//   - *Assessment: The computed assessment.
//   - error: Non-nil only for a nil context.
func (a *Assessor) Assess(ctx context.Context, findings []validator.Finding, risks risk.Summary) (*Assessment, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}

	_, span := telemetry.Tracer().Start(ctx, "trust.Assess")
	defer span.End()

	scores := make(map[Dimension]float64, len(Dimensions))
	for _, d := range Dimensions {
		scores[d] = maxDimensionScore
	}

	for _, f := range findings {
		if f.Status != validator.StatusFail {
			continue
		}
		dim := DimensionForRule(f.RuleID)
		if f.Severity == registry.SeverityError {
			scores[dim] -= errorDeduction
		} else {
			scores[dim] -= warningDeduction
		}
	}

	riskTotals := make(map[Dimension]float64)
	for category, total := range risks.ByCategory {
		riskTotals[DimensionForCategory(category)] += total
	}
	for dim, total := range riskTotals {
		scores[dim] -= math.Min(maxRiskDeduction, total/riskDivisor)
	}

	var sum float64
	for _, d := range Dimensions {
		scores[d] = clamp(scores[d])
		sum += scores[d]
	}
	overall := sum / float64(len(Dimensions))

	assessment := &Assessment{
		ID:              uuid.NewString(),
		DimensionScores: scores,
		OverallScore:    overall,
		Level:           LevelFor(overall),
		ComputedAt:      a.now().UTC(),
	}

	span.SetAttributes(
		attribute.Float64("trust.overall_score", overall),
		attribute.String("trust.level", string(assessment.Level)),
	)
	if a.logger != nil {
		a.logger.Info("trust assessment complete",
			slog.Float64("overall_score", overall),
			slog.String("level", string(assessment.Level)),
		)
	}
	return assessment, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxDimensionScore {
		return maxDimensionScore
	}
	return v
}
