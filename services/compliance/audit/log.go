// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/TrustByDesign/services/compliance/telemetry"
)

// Log is the append-only, hash-chained audit log.
//
// # Thread Safety
//
// Safe for concurrent use. A single mutex serializes appends so seq
// assignment and prev-hash linkage stay consistent under concurrency;
// reads copy under the same lock.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	store   Store
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithStore attaches a durable backing store. Every append is persisted
// to the store before the in-memory chain advances.
func WithStore(s Store) Option {
	return func(l *Log) { l.store = s }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// NewLog creates an empty audit log.
func NewLog(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OpenLog creates a log over a backing store, restoring any previously
// persisted chain.
//
// # Description
//
// The restored chain is verified before the log accepts appends; a log
// must never extend a chain it cannot vouch for.
//
// # Inputs
//
//   - ctx: Context for the store load. Must not be nil.
//   - store: The durable store. Must not be nil.
//   - opts: Further options.
//
// # Outputs
//
//   - *Log: The restored log.
//   - error: Non-nil if loading fails or the persisted chain is
//     broken.
func OpenLog(ctx context.Context, store Store, opts ...Option) (*Log, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persisted audit chain: %w", err)
	}
	if result := VerifyEntries(entries); !result.Valid {
		return nil, fmt.Errorf("persisted audit chain is broken at seq %d: %s",
			*result.BreakAtSeq, result.Reason)
	}

	l := NewLog(append(opts, WithStore(store))...)
	l.entries = entries
	return l, nil
}

// Append records one event at the end of the chain.
//
// # Description
//
// Assigns the next seq, stamps the current UTC time, links PrevHash to
// the chain head and computes the entry hash over the canonical
// serialization. With a backing store the entry is persisted first;
// a store failure propagates and leaves the in-memory chain unchanged,
// so memory never claims an entry durability lost.
//
// # Inputs
//
//   - ctx: Context for tracing and store writes. Must not be nil.
//   - eventType: Non-empty event classification.
//   - details: Structured payload; must be JSON-serializable. May be
//     nil.
//
// # Outputs
//
//   - Entry: The appended entry, hash included.
//   - error: ErrEmptyEventType, ErrNotSerializable, or a store error.
func (l *Log) Append(ctx context.Context, eventType string, details map[string]any) (Entry, error) {
	if ctx == nil {
		return Entry{}, fmt.Errorf("context is required")
	}
	if eventType == "" {
		return Entry{}, ErrEmptyEventType
	}

	ctx, span := telemetry.Tracer().Start(ctx, "audit.Append")
	defer span.End()
	span.SetAttributes(attribute.String("audit.event_type", eventType))

	// Shallow copy so later caller mutations cannot alter the
	// recorded entry.
	if details != nil {
		copied := make(map[string]any, len(details))
		for k, v := range details {
			copied[k] = v
		}
		details = copied
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prevHash := GenesisHash
	if n := len(l.entries); n > 0 {
		prevHash = l.entries[n-1].EntryHash
	}

	entry := Entry{
		Seq:       uint64(len(l.entries)),
		Timestamp: l.now().UTC().Format(time.RFC3339Nano),
		EventType: eventType,
		Details:   details,
		PrevHash:  prevHash,
	}

	hash, err := computeHash(entry)
	if err != nil {
		return Entry{}, err
	}
	entry.EntryHash = hash

	if l.store != nil {
		if err := l.store.Append(ctx, entry); err != nil {
			return Entry{}, fmt.Errorf("persist audit entry seq %d: %w", entry.Seq, err)
		}
	}

	l.entries = append(l.entries, entry)
	telemetry.AuditAppends.Inc()

	if l.logger != nil {
		l.logger.Debug("audit entry appended",
			slog.Uint64("seq", entry.Seq),
			slog.String("event_type", eventType),
			slog.String("hash", truncateHash(entry.EntryHash)),
		)
	}
	return entry, nil
}

// Len returns the number of entries in the chain.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the full chain in seq order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Filter restricts a Query. Zero values match everything.
type Filter struct {
	// EventType matches entries with this exact event type.
	EventType string

	// From matches entries stamped at or after this time.
	From time.Time

	// To matches entries stamped strictly before this time.
	To time.Time
}

// Query returns copies of the entries matching the filter, ascending by
// seq. An entry whose timestamp fails to parse is excluded from
// time-bounded queries rather than aborting the scan.
func (l *Log) Query(f Filter) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		if !f.From.IsZero() || !f.To.IsZero() {
			ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
			if err != nil {
				continue
			}
			if !f.From.IsZero() && ts.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && !ts.Before(f.To) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// VerifyChain checks the integrity of the full chain.
//
// # Description
//
// Walks the chain from the first entry, recomputing each hash and
// checking seq continuity and prev-hash linkage. Reports the first
// break; an empty chain is trivially valid. Never returns an error:
// a broken chain is data, not failure.
//
// # Outputs
//
//   - VerificationResult: Valid, or the first break's seq and reason.
func (l *Log) VerifyChain() VerificationResult {
	l.mu.Lock()
	entries := append([]Entry(nil), l.entries...)
	l.mu.Unlock()

	result := VerifyEntries(entries)

	outcome := "valid"
	if !result.Valid {
		outcome = "broken"
	}
	telemetry.ChainVerifications.WithLabelValues(outcome).Inc()

	if l.logger != nil && !result.Valid {
		l.logger.Warn("audit chain verification failed",
			slog.Uint64("break_at_seq", *result.BreakAtSeq),
			slog.String("reason", result.Reason),
		)
	}
	return result
}

// VerifyEntries checks the integrity of an entry sequence without a
// Log, for chains loaded straight from a store or an export.
func VerifyEntries(entries []Entry) VerificationResult {
	result := VerificationResult{Valid: true, Entries: len(entries)}

	prevHash := GenesisHash
	for i, e := range entries {
		wantSeq := uint64(i)
		if e.Seq != wantSeq {
			return breakAt(wantSeq, len(entries),
				fmt.Sprintf("seq %d out of order, expected %d", e.Seq, wantSeq))
		}
		if !hashEqual(e.PrevHash, prevHash) {
			return breakAt(e.Seq, len(entries),
				fmt.Sprintf("prev_hash mismatch, expected %s", truncateHash(prevHash)))
		}
		recomputed, err := computeHash(e)
		if err != nil {
			return breakAt(e.Seq, len(entries),
				fmt.Sprintf("entry not hashable: %v", err))
		}
		if !hashEqual(e.EntryHash, recomputed) {
			return breakAt(e.Seq, len(entries), "entry hash mismatch, content was altered")
		}
		prevHash = e.EntryHash
	}
	return result
}

func breakAt(seq uint64, total int, reason string) VerificationResult {
	return VerificationResult{
		Valid:      false,
		BreakAtSeq: &seq,
		Reason:     reason,
		Entries:    total,
	}
}
