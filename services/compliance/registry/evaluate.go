// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"fmt"
	"reflect"

	"github.com/AleutianAI/TrustByDesign/services/compliance/config"
)

// Evaluate runs the check against a configuration.
//
// # Description
//
// Returns whether the config satisfies the predicate plus a short detail
// suitable for a finding message. Absent fields are a failed predicate,
// never an error: completeness failures are findings by contract.
//
// # Inputs
//
//   - cfg: The configuration under validation. A nil or empty config
//     fails every predicate.
//
// # Outputs
//
//   - bool: True if the predicate holds.
//   - string: Detail for the finding message.
func (c Check) Evaluate(cfg *config.SystemConfig) (bool, string) {
	if c.Kind == CheckCustom {
		if c.Fn == nil {
			return false, "custom check has no predicate"
		}
		return c.Fn(cfg)
	}

	value, found := cfg.Lookup(c.Path)

	switch c.Kind {
	case CheckFieldPresent:
		if !found || isEmptyValue(value) {
			return false, fmt.Sprintf("%s missing or empty", c.Path)
		}
		return true, fmt.Sprintf("%s defined", c.Path)

	case CheckFieldTrue:
		if b, ok := value.(bool); found && ok && b {
			return true, fmt.Sprintf("%s confirmed", c.Path)
		}
		return false, fmt.Sprintf("%s not confirmed", c.Path)

	case CheckFieldEquals:
		if !found {
			return false, fmt.Sprintf("%s missing", c.Path)
		}
		if reflect.DeepEqual(value, c.Equals) {
			return true, fmt.Sprintf("%s matches required value", c.Path)
		}
		return false, fmt.Sprintf("%s is %v, want %v", c.Path, value, c.Equals)

	case CheckListNonEmpty:
		n, ok := listLen(value)
		if !found || !ok || n == 0 {
			return false, fmt.Sprintf("%s has no entries", c.Path)
		}
		return true, fmt.Sprintf("%s has %d entries", c.Path, n)

	case CheckNumericRange:
		f, ok := toFloat(value)
		if !found || !ok {
			return false, fmt.Sprintf("%s is not a number", c.Path)
		}
		if c.Min != nil && f < *c.Min {
			return false, fmt.Sprintf("%s is %v, below minimum %v", c.Path, f, *c.Min)
		}
		if c.Max != nil && f > *c.Max {
			return false, fmt.Sprintf("%s is %v, above maximum %v", c.Path, f, *c.Max)
		}
		return true, fmt.Sprintf("%s within range", c.Path)

	default:
		return false, fmt.Sprintf("unknown check kind %q", c.Kind)
	}
}

// isEmptyValue reports whether a decoded value counts as "missing or empty"
// for presence checks.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// listLen returns the length of a decoded list value.
func listLen(v any) (int, bool) {
	switch t := v.(type) {
	case []any:
		return len(t), true
	case []string:
		return len(t), true
	default:
		return 0, false
	}
}

// toFloat normalizes the numeric types YAML and JSON decoders produce.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
