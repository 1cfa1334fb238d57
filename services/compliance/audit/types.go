// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package audit maintains a hash-chained, append-only audit log.
//
// Every entry's hash covers its own content plus the previous entry's
// hash, so any modification, deletion or reordering of recorded entries
// is detectable by walking the chain. Verification reports the first
// broken link rather than erroring, because an invalid chain is a
// finding about the data, not a failure of the verifier.
package audit

import (
	"context"
	"errors"
	"strings"
)

// GenesisHash is the previous-hash sentinel for the first entry.
var GenesisHash = strings.Repeat("0", 64)

var (
	// ErrEmptyEventType indicates an append with no event type.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrNotSerializable indicates entry details that cannot be
	// canonically serialized. Nothing is appended when it occurs.
	ErrNotSerializable = errors.New("entry details are not serializable")
)

// Well-known event types recorded by the engine. Callers may append
// their own types; the log does not restrict the vocabulary.
const (
	EventValidationRun   = "validation_run"
	EventRiskAdded       = "risk_added"
	EventRiskUpdated     = "risk_updated"
	EventTrustAssessment = "trust_assessment"
	EventReportGenerated = "report_generated"
)

// Entry is one immutable audit record.
type Entry struct {
	// Seq is the monotonically increasing sequence number, starting
	// at 0.
	Seq uint64 `json:"seq"`

	// Timestamp is the append time in RFC 3339 nano format, UTC.
	Timestamp string `json:"timestamp"`

	// EventType classifies the recorded event.
	EventType string `json:"event_type"`

	// Details is the structured event payload.
	Details map[string]any `json:"details,omitempty"`

	// PrevHash is the hex hash of the preceding entry, or GenesisHash
	// for the first entry.
	PrevHash string `json:"prev_hash"`

	// EntryHash is the hex SHA-256 hash over this entry's content and
	// PrevHash.
	EntryHash string `json:"entry_hash"`
}

// Store persists audit entries durably. Implementations must retain
// entries in seq order and must not mutate them.
type Store interface {
	// Append persists one entry. An error means the entry was not
	// durably recorded; the log will not advance its chain.
	Append(ctx context.Context, e Entry) error

	// Load returns all persisted entries in ascending seq order.
	Load(ctx context.Context) ([]Entry, error)
}

// VerificationResult describes the integrity of a chain.
//
// An invalid chain is a value, not an error: verification succeeds and
// reports where the chain breaks.
type VerificationResult struct {
	// Valid is true when every link checks out.
	Valid bool `json:"valid"`

	// BreakAtSeq is the sequence number of the first entry failing
	// verification. Nil when the chain is valid.
	BreakAtSeq *uint64 `json:"break_at_seq,omitempty"`

	// Reason describes the first detected break.
	Reason string `json:"reason,omitempty"`

	// Entries is the number of entries examined.
	Entries int `json:"entries"`
}
