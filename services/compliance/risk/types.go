// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package risk tracks AI system risks and computes severity scores.
//
// Each risk carries an ordinal likelihood (1-5), an ordinal impact (1-4)
// and a detectability factor (0.0/0.5/1.0). Its score is
//
//	likelihood × impact × (1 + detectability)
//
// giving the range [1, 40]. Risks are never physically deleted; closing a
// risk moves its status to closed, which excludes it from live aggregate
// totals while preserving it for historical reporting.
package risk

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateID indicates a risk with the same ID already exists.
	ErrDuplicateID = errors.New("risk ID already exists")

	// ErrNotFound indicates the requested risk does not exist.
	ErrNotFound = errors.New("risk not found")
)

// Category buckets risks by failure mode. Categories map onto trust
// dimensions via a static table in the trust package.
type Category string

const (
	CategoryHallucination Category = "hallucination"
	CategoryPrivacy       Category = "privacy"
	CategoryBias          Category = "bias"
	CategoryAutonomy      Category = "autonomy_overreach"
	CategoryMisuse        Category = "misuse"
	CategoryDataQuality   Category = "data_quality"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryCompliance    Category = "compliance"
	CategoryOther         Category = "other"
)

// Likelihood is the ordinal probability of a risk occurring.
type Likelihood string

const (
	LikelihoodVeryLow  Likelihood = "very_low"
	LikelihoodLow      Likelihood = "low"
	LikelihoodMedium   Likelihood = "medium"
	LikelihoodHigh     Likelihood = "high"
	LikelihoodVeryHigh Likelihood = "very_high"
)

// Ordinal returns the likelihood weight (1-5), or 0 if invalid.
func (l Likelihood) Ordinal() int {
	switch l {
	case LikelihoodVeryLow:
		return 1
	case LikelihoodLow:
		return 2
	case LikelihoodMedium:
		return 3
	case LikelihoodHigh:
		return 4
	case LikelihoodVeryHigh:
		return 5
	default:
		return 0
	}
}

// Impact is the ordinal severity of a risk materializing.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// Ordinal returns the impact weight (1-4), or 0 if invalid.
func (i Impact) Ordinal() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	case ImpactCritical:
		return 4
	default:
		return 0
	}
}

// Detectability is how easily a materialized risk would be noticed.
// Low detectability makes a risk worse, so it carries the highest factor.
type Detectability string

const (
	DetectabilityHigh   Detectability = "high"
	DetectabilityMedium Detectability = "medium"
	DetectabilityLow    Detectability = "low"
)

// Factor returns the detectability multiplier contribution, or -1 if
// invalid.
func (d Detectability) Factor() float64 {
	switch d {
	case DetectabilityHigh:
		return 0.0
	case DetectabilityMedium:
		return 0.5
	case DetectabilityLow:
		return 1.0
	default:
		return -1
	}
}

// Status tracks a risk through its lifecycle.
type Status string

const (
	StatusIdentified Status = "identified"
	StatusAnalyzing  Status = "analyzing"
	StatusMitigating Status = "mitigating"
	StatusMonitoring Status = "monitoring"
	StatusAccepted   Status = "accepted"
	StatusClosed     Status = "closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusIdentified, StatusAnalyzing, StatusMitigating,
		StatusMonitoring, StatusAccepted, StatusClosed:
		return true
	default:
		return false
	}
}

// Entry is one tracked risk.
type Entry struct {
	// ID is the unique risk identifier.
	ID string `yaml:"id" json:"id"`

	// Category is the risk category.
	Category Category `yaml:"category" json:"category"`

	// Title is the short risk description.
	Title string `yaml:"title" json:"title"`

	// Description is the detailed risk description.
	Description string `yaml:"description" json:"description,omitempty"`

	// Likelihood is the probability of occurrence.
	Likelihood Likelihood `yaml:"likelihood" json:"likelihood"`

	// Impact is the severity if the risk materializes.
	Impact Impact `yaml:"impact" json:"impact"`

	// Detectability is how easily occurrence would be noticed.
	Detectability Detectability `yaml:"detectability" json:"detectability"`

	// Status is the current lifecycle state.
	Status Status `yaml:"status" json:"status"`

	// Mitigations lists the mitigation measures in place or planned.
	Mitigations []string `yaml:"mitigations" json:"mitigations,omitempty"`

	// Owner is the person or team responsible.
	Owner string `yaml:"owner" json:"owner,omitempty"`

	// CreatedAt is when the risk was first registered.
	CreatedAt time.Time `yaml:"-" json:"created_at,omitzero"`

	// UpdatedAt is when the risk was last modified.
	UpdatedAt time.Time `yaml:"-" json:"updated_at,omitzero"`
}

// Open reports whether the entry counts toward live risk totals.
func (e Entry) Open() bool {
	return e.Status != StatusClosed
}
