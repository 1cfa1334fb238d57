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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsDefaults(t *testing.T) {
	reg := NewRegistry()

	id, err := reg.Add(Entry{
		Category:      CategoryPrivacy,
		Title:         "user data retained too long",
		Likelihood:    LikelihoodMedium,
		Impact:        ImpactHigh,
		Detectability: "",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stored, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusIdentified, stored.Status)
	assert.Equal(t, DetectabilityMedium, stored.Detectability)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
}

func TestAddRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	e := entry("r-1", LikelihoodLow, ImpactLow, DetectabilityHigh)

	_, err := reg.Add(e)
	require.NoError(t, err)

	_, err = reg.Add(e)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAddRejectsUnscoreable(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Add(entry("r-bad", "never", ImpactLow, DetectabilityHigh))
	assert.ErrorContains(t, err, "invalid likelihood")
	assert.Empty(t, reg.List())
}

func TestApplyUpdatesFields(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(entry("r-1", LikelihoodLow, ImpactLow, DetectabilityHigh))
	require.NoError(t, err)

	likelihood := LikelihoodHigh
	owner := "safety-team"
	require.NoError(t, reg.Apply("r-1", Update{
		Likelihood:  &likelihood,
		Owner:       &owner,
		Mitigations: []string{"rate limiting"},
	}))

	stored, err := reg.Get("r-1")
	require.NoError(t, err)
	assert.Equal(t, LikelihoodHigh, stored.Likelihood)
	assert.Equal(t, "safety-team", stored.Owner)
	assert.Equal(t, []string{"rate limiting"}, stored.Mitigations)
}

// TestApplyRejectsInvalidUpdate verifies a bad update leaves the stored
// entry untouched.
func TestApplyRejectsInvalidUpdate(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(entry("r-1", LikelihoodLow, ImpactLow, DetectabilityHigh))
	require.NoError(t, err)

	bad := Likelihood("sometimes")
	err = reg.Apply("r-1", Update{Likelihood: &bad})
	assert.ErrorContains(t, err, "invalid likelihood")

	stored, err := reg.Get("r-1")
	require.NoError(t, err)
	assert.Equal(t, LikelihoodLow, stored.Likelihood)
}

func TestApplyNotFound(t *testing.T) {
	reg := NewRegistry()
	owner := "nobody"
	assert.ErrorIs(t, reg.Apply("ghost", Update{Owner: &owner}), ErrNotFound)

	_, err := reg.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCloseKeepsEntry verifies closing removes a risk from the open view
// but never from the register.
func TestCloseKeepsEntry(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(entry("r-1", LikelihoodVeryHigh, ImpactCritical, DetectabilityLow))
	require.NoError(t, err)
	_, err = reg.Add(entry("r-2", LikelihoodLow, ImpactLow, DetectabilityHigh))
	require.NoError(t, err)

	require.NoError(t, reg.Close("r-1"))

	assert.Len(t, reg.List(), 2)
	open := reg.Open()
	require.Len(t, open, 1)
	assert.Equal(t, "r-2", open[0].ID)

	summary := reg.Summary(DefaultBands())
	assert.Equal(t, 1, summary.OpenCount)
	assert.Equal(t, 1, summary.ClosedCount)
	assert.Equal(t, 40.0, summary.ClosedTotal)
}

// TestReopenClosedRisk verifies a closed risk can be reopened through a
// status update and counts toward live totals again.
func TestReopenClosedRisk(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(entry("r-1", LikelihoodHigh, ImpactHigh, DetectabilityLow))
	require.NoError(t, err)

	require.NoError(t, reg.Close("r-1"))
	assert.Empty(t, reg.Open())

	status := StatusMitigating
	require.NoError(t, reg.Apply("r-1", Update{Status: &status}))

	open := reg.Open()
	require.Len(t, open, 1)
	assert.Equal(t, StatusMitigating, open[0].Status)

	summary := reg.Summary(DefaultBands())
	assert.Equal(t, 1, summary.OpenCount)
	assert.Zero(t, summary.ClosedCount)
}

// TestListReturnsCopies verifies callers cannot mutate registry state
// through returned entries.
func TestListReturnsCopies(t *testing.T) {
	reg := NewRegistry()
	e := entry("r-1", LikelihoodLow, ImpactLow, DetectabilityHigh)
	e.Mitigations = []string{"original"}
	_, err := reg.Add(e)
	require.NoError(t, err)

	listed := reg.List()
	listed[0].Mitigations[0] = "tampered"
	listed[0].Title = "tampered"

	stored, err := reg.Get("r-1")
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Mitigations[0])
	assert.Equal(t, "test risk", stored.Title)
}
