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
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is an in-memory risk register.
//
// # Thread Safety
//
// Safe for concurrent use. All accessors return defensive copies.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
	now     func() time.Time
}

// NewRegistry creates an empty risk register.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// Add registers a new risk.
//
// # Description
//
// A blank ID is replaced with a generated UUID. Missing lifecycle fields
// get defaults (status identified, detectability medium). The entry's
// dimensions are validated by scoring it once up front, so a register
// never holds an unscoreable open risk.
//
// # Inputs
//
//   - e: The risk to add.
//
// # Outputs
//
//   - string: The (possibly generated) risk ID.
//   - error: ErrDuplicateID if the ID is taken, or a scoring error for
//     invalid dimensions.
func (r *Registry) Add(e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = StatusIdentified
	}
	if e.Detectability == "" {
		e.Detectability = DetectabilityMedium
	}
	if !e.Status.Valid() {
		return "", fmt.Errorf("risk %q: invalid status %q", e.ID, e.Status)
	}
	if _, err := Score(e); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; exists {
		return "", fmt.Errorf("risk %q: %w", e.ID, ErrDuplicateID)
	}

	now := r.now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.byID[e.ID] = len(r.entries)
	r.entries = append(r.entries, e)
	return e.ID, nil
}

// Update holds the mutable fields of a risk. Nil pointers leave the
// corresponding field unchanged.
type Update struct {
	Title         *string
	Description   *string
	Likelihood    *Likelihood
	Impact        *Impact
	Detectability *Detectability
	Status        *Status
	Owner         *string
	Mitigations   []string
}

// Apply updates a registered risk in place.
//
// # Outputs
//
//   - error: ErrNotFound for an unknown ID, or a validation error if the
//     update would make the risk unscoreable. On error the stored entry
//     is unchanged.
func (r *Registry) Apply(id string, u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, exists := r.byID[id]
	if !exists {
		return fmt.Errorf("risk %q: %w", id, ErrNotFound)
	}

	e := r.entries[idx]
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Likelihood != nil {
		e.Likelihood = *u.Likelihood
	}
	if u.Impact != nil {
		e.Impact = *u.Impact
	}
	if u.Detectability != nil {
		e.Detectability = *u.Detectability
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return fmt.Errorf("risk %q: invalid status %q", id, *u.Status)
		}
		e.Status = *u.Status
	}
	if u.Owner != nil {
		e.Owner = *u.Owner
	}
	if u.Mitigations != nil {
		e.Mitigations = append([]string(nil), u.Mitigations...)
	}
	if _, err := Score(e); err != nil {
		return err
	}

	e.UpdatedAt = r.now().UTC()
	r.entries[idx] = e
	return nil
}

// Close moves a risk to the closed status. Closed risks stay in the
// register for historical reporting; there is no delete operation.
func (r *Registry) Close(id string) error {
	status := StatusClosed
	return r.Apply(id, Update{Status: &status})
}

// Get returns a copy of the risk with the given ID.
func (r *Registry) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		return Entry{}, fmt.Errorf("risk %q: %w", id, ErrNotFound)
	}
	return copyEntry(r.entries[idx]), nil
}

// List returns copies of all registered risks in registration order,
// closed risks included.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, copyEntry(e))
	}
	return out
}

// Open returns copies of the risks that are not closed, in registration
// order.
func (r *Registry) Open() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Open() {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// Summary aggregates the full register, closed risks included in the
// historical counters.
func (r *Registry) Summary(bands BandThresholds) Summary {
	return Aggregate(r.List(), bands)
}

func copyEntry(e Entry) Entry {
	e.Mitigations = append([]string(nil), e.Mitigations...)
	return e
}
