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
	"sort"
)

// Band is the severity classification derived from a risk score.
type Band string

const (
	BandCritical Band = "Critical"
	BandHigh     Band = "High"
	BandMedium   Band = "Medium"
	BandLow      Band = "Low"
)

// BandThresholds holds the inclusive lower bounds for the severity bands.
// A score below Medium falls into the Low band.
type BandThresholds struct {
	Critical float64 `yaml:"critical" json:"critical"`
	High     float64 `yaml:"high" json:"high"`
	Medium   float64 `yaml:"medium" json:"medium"`
}

// DefaultBands returns the standard severity thresholds.
func DefaultBands() BandThresholds {
	return BandThresholds{Critical: 20, High: 12, Medium: 6}
}

// Band classifies a score against the thresholds.
func (b BandThresholds) Band(score float64) Band {
	switch {
	case score >= b.Critical:
		return BandCritical
	case score >= b.High:
		return BandHigh
	case score >= b.Medium:
		return BandMedium
	default:
		return BandLow
	}
}

// Score computes the severity score of a single risk.
//
// # Description
//
// score = likelihood_ordinal × impact_ordinal × (1 + detectability_factor)
//
// With valid inputs the result is always within [1, 40]. Any out-of-enum
// dimension yields an error naming the offending field; no default is
// substituted.
//
// # Inputs
//
//   - e: The risk entry to score.
//
// # Outputs
//
//   - float64: The severity score, 0 on error.
//   - error: Non-nil if likelihood, impact or detectability is invalid.
func Score(e Entry) (float64, error) {
	likelihood := e.Likelihood.Ordinal()
	if likelihood == 0 {
		return 0, fmt.Errorf("risk %q: invalid likelihood %q", e.ID, e.Likelihood)
	}
	impact := e.Impact.Ordinal()
	if impact == 0 {
		return 0, fmt.Errorf("risk %q: invalid impact %q", e.ID, e.Impact)
	}
	factor := e.Detectability.Factor()
	if factor < 0 {
		return 0, fmt.Errorf("risk %q: invalid detectability %q", e.ID, e.Detectability)
	}
	return float64(likelihood) * float64(impact) * (1 + factor), nil
}

// Failure records a risk that could not be scored during aggregation.
type Failure struct {
	// ID is the unscoreable risk's identifier.
	ID string `json:"id"`

	// Reason describes why scoring failed.
	Reason string `json:"reason"`
}

// Summary is the aggregate risk posture over a set of entries.
//
// Closed risks are excluded from the live totals but counted separately
// so reports can show historical exposure alongside current exposure.
type Summary struct {
	// OpenCount is the number of scoreable open risks.
	OpenCount int `json:"open_count"`

	// OpenTotal is the summed score of all open risks.
	OpenTotal float64 `json:"open_total"`

	// ByCategory sums open risk scores per category.
	ByCategory map[Category]float64 `json:"by_category"`

	// ByBand counts open risks per severity band.
	ByBand map[Band]int `json:"by_band"`

	// Highest is the open risk with the largest score, nil when none.
	Highest *ScoredEntry `json:"highest,omitempty"`

	// ClosedCount is the number of scoreable closed risks.
	ClosedCount int `json:"closed_count"`

	// ClosedTotal is the summed score of all closed risks.
	ClosedTotal float64 `json:"closed_total"`

	// Failures lists entries that could not be scored.
	Failures []Failure `json:"failures,omitempty"`
}

// ScoredEntry pairs a risk with its computed score and band.
type ScoredEntry struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
	Band  Band    `json:"band"`
}

// Aggregate scores a set of risks and rolls them up into a Summary.
//
// # Description
//
// Each entry is scored independently; an entry with an invalid dimension
// is recorded under Failures and skipped, it never aborts aggregation.
// Open and closed risks are totaled separately, and only open risks
// contribute to the per-category and per-band breakdowns. Deterministic
// for a given input order.
//
// # Inputs
//
//   - entries: The risks to aggregate.
//   - bands: Severity band thresholds; use DefaultBands for the standard
//     classification.
//
// # Outputs
//
//   - Summary: The aggregate risk posture.
func Aggregate(entries []Entry, bands BandThresholds) Summary {
	s := Summary{
		ByCategory: make(map[Category]float64),
		ByBand:     make(map[Band]int),
	}

	for _, e := range entries {
		score, err := Score(e)
		if err != nil {
			s.Failures = append(s.Failures, Failure{ID: e.ID, Reason: err.Error()})
			continue
		}

		if !e.Open() {
			s.ClosedCount++
			s.ClosedTotal += score
			continue
		}

		s.OpenCount++
		s.OpenTotal += score
		s.ByCategory[e.Category] += score
		s.ByBand[bands.Band(score)]++
		if s.Highest == nil || score > s.Highest.Score {
			s.Highest = &ScoredEntry{Entry: e, Score: score, Band: bands.Band(score)}
		}
	}
	return s
}

// ScoreAll scores every entry and returns the results sorted by score,
// highest first; ties keep input order. Unscoreable entries are omitted.
func ScoreAll(entries []Entry, bands BandThresholds) []ScoredEntry {
	scored := make([]ScoredEntry, 0, len(entries))
	for _, e := range entries {
		score, err := Score(e)
		if err != nil {
			continue
		}
		scored = append(scored, ScoredEntry{Entry: e, Score: score, Band: bands.Band(score)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
