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
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
)

// canonicalDetails serializes the details payload deterministically.
// encoding/json emits map keys in sorted order, so two semantically
// equal payloads always hash identically regardless of insertion order.
func canonicalDetails(details map[string]any) (string, error) {
	if len(details) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return string(data), nil
}

// computeHash derives the entry hash from the entry's content fields
// and the preceding hash. Fields are null-delimited so no field
// boundary ambiguity can produce a collision between distinct entries.
func computeHash(e Entry) (string, error) {
	details, err := canonicalDetails(e.Details)
	if err != nil {
		return "", err
	}
	payload := fmt.Sprintf("%d\x00%s\x00%s\x00%s\x00%s",
		e.Seq, e.Timestamp, e.EventType, details, e.PrevHash)
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%x", sum), nil
}

// hashEqual compares two hex hashes in constant time.
func hashEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// truncateHash shortens a hash for log output.
func truncateHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12] + "..."
}
