// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/TrustByDesign/services/compliance/audit"
)

// TestEntryRowTruncatesHash verifies the listing never panics on a
// tampered store whose hashes are shorter than the display width.
func TestEntryRowTruncatesHash(t *testing.T) {
	e := audit.Entry{
		Seq:       3,
		Timestamp: "2026-03-01T12:00:00Z",
		EventType: "validation_run",
		EntryHash: strings.Repeat("a", 64),
	}

	row := entryRow(e)
	assert.Contains(t, row, strings.Repeat("a", 12))
	assert.NotContains(t, row, strings.Repeat("a", 13))

	e.EntryHash = "ab"
	assert.NotPanics(t, func() { row = entryRow(e) })
	assert.Contains(t, row, "ab")

	e.EntryHash = ""
	assert.NotPanics(t, func() { _ = entryRow(e) })
}
