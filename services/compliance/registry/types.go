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
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/TrustByDesign/services/compliance/config"
)

// ErrInvalidTier indicates a caller requested an undefined compliance tier.
var ErrInvalidTier = errors.New("invalid compliance tier (want 1, 2 or 3)")

// Tier bounds. Tiers are cumulative: tier 2 includes all tier 1 rules,
// tier 3 includes all tier 2 rules.
const (
	TierMin = 1
	TierMax = 3
)

// ValidTier reports whether tier is a defined compliance tier.
func ValidTier(tier int) bool {
	return tier >= TierMin && tier <= TierMax
}

// Severity is the weight of a failed rule.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// UnmarshalYAML validates severity values at rule-load time.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := Severity(raw)
	switch incoming {
	case SeverityError, SeverityWarning:
		*s = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for severity: %q", incoming)
	}
}

// CheckKind selects the predicate a rule applies to the configuration.
//
// Most rules are data: a kind plus a dotted path. CheckCustom is the
// escape hatch for rules registered programmatically with a Go predicate.
type CheckKind string

const (
	CheckFieldPresent CheckKind = "field_present"
	CheckFieldTrue    CheckKind = "field_true"
	CheckFieldEquals  CheckKind = "field_equals"
	CheckListNonEmpty CheckKind = "list_non_empty"
	CheckNumericRange CheckKind = "numeric_range"
	CheckCustom       CheckKind = "custom"
)

// UnmarshalYAML validates check kinds at rule-load time.
func (k *CheckKind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := CheckKind(raw)
	switch incoming {
	case CheckFieldPresent, CheckFieldTrue, CheckFieldEquals,
		CheckListNonEmpty, CheckNumericRange:
		*k = incoming
		return nil
	case CheckCustom:
		return fmt.Errorf("check kind %q cannot be declared in rule files; use Registry.Register", incoming)
	default:
		return fmt.Errorf("invalid value for check kind: %q", incoming)
	}
}

// Check is the tagged predicate variant a rule evaluates.
type Check struct {
	// Kind selects the predicate.
	Kind CheckKind `yaml:"kind"`

	// Path is the dotted config path the predicate inspects.
	Path string `yaml:"path"`

	// Equals is the expected value for field_equals checks.
	Equals any `yaml:"equals,omitempty"`

	// Min is the inclusive lower bound for numeric_range checks.
	Min *float64 `yaml:"min,omitempty"`

	// Max is the inclusive upper bound for numeric_range checks.
	Max *float64 `yaml:"max,omitempty"`

	// Fn is the predicate for custom rules. It returns whether the
	// config passes plus a short detail for the finding message.
	// Only settable programmatically.
	Fn func(cfg *config.SystemConfig) (bool, string) `yaml:"-"`
}

// Rule is one compliance requirement within a tier.
type Rule struct {
	// ID uniquely identifies the rule across the full cumulative set.
	ID string `yaml:"id"`

	// Tier is the compliance tier that introduces this rule.
	Tier int `yaml:"tier"`

	// Description explains what the rule requires.
	Description string `yaml:"description"`

	// Severity is the weight of a failure at the rule's base tier.
	Severity Severity `yaml:"severity"`

	// EscalateAtTier optionally raises a warning rule to error severity
	// when validating at or above the given tier. Zero means never.
	// Keeps rule IDs unique across tiers instead of shadowing a warning
	// rule with an error twin.
	EscalateAtTier int `yaml:"escalate_at_tier,omitempty"`

	// Check is the predicate evaluated against the configuration.
	Check Check `yaml:"check"`
}

// SeverityAt resolves the rule's effective severity for a validation tier.
func (r Rule) SeverityAt(tier int) Severity {
	if r.EscalateAtTier > 0 && tier >= r.EscalateAtTier {
		return SeverityError
	}
	return r.Severity
}

// ruleFile is the on-disk shape of the embedded rule definitions.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}
