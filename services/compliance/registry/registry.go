// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry holds the versioned, tiered compliance rule sets.
//
// Rules are loaded once from the embedded YAML definitions and are
// immutable for the lifetime of a validation run. Tiers are cumulative:
// RulesForTier(2) returns every tier-1 rule followed by tier 2's
// additions, in declaration order, so validation output is deterministic
// and reproducible across runs.
package registry

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/TrustByDesign/services/compliance/registry/enforcement"
)

// Registry is the tiered rule set registry.
//
// # Thread Safety
//
// Safe for concurrent use after construction. Register takes the write
// lock; RulesForTier returns defensive copies under the read lock.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
}

// New loads the embedded rule definitions into a Registry.
//
// # Outputs
//
//   - *Registry: Ready-to-use registry with the default TrustByDesign
//     rule set.
//   - error: Non-nil if the embedded YAML is malformed, declares an
//     invalid tier, or contains duplicate rule IDs.
func New() (*Registry, error) {
	var file ruleFile
	if err := yaml.Unmarshal(enforcement.ComplianceRules, &file); err != nil {
		return nil, fmt.Errorf("unmarshal embedded rule file: %w", err)
	}

	r := &Registry{rules: make([]Rule, 0, len(file.Rules))}
	for _, rule := range file.Rules {
		if err := r.Register(rule); err != nil {
			return nil, fmt.Errorf("embedded rule %q: %w", rule.ID, err)
		}
	}
	return r, nil
}

// Empty creates a registry with no rules, for callers assembling a fully
// custom rule set.
func Empty() *Registry {
	return &Registry{rules: make([]Rule, 0)}
}

// Register adds a rule to the registry.
//
// # Description
//
// Rules registered after construction keep declaration order within
// their tier, after the embedded rules. This is the escape hatch for
// CheckCustom rules, which cannot be expressed in the YAML definitions.
//
// # Inputs
//
//   - rule: The rule to add. ID must be unique across all tiers.
//
// # Outputs
//
//   - error: Non-nil if the tier is invalid, the ID is empty or
//     duplicate, or a custom check has no predicate.
func (r *Registry) Register(rule Rule) error {
	if !ValidTier(rule.Tier) {
		return fmt.Errorf("tier %d: %w", rule.Tier, ErrInvalidTier)
	}
	if rule.ID == "" {
		return fmt.Errorf("rule ID must not be empty")
	}
	if rule.Check.Kind == CheckCustom && rule.Check.Fn == nil {
		return fmt.Errorf("custom rule %q has no predicate", rule.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rules {
		if existing.ID == rule.ID {
			return fmt.Errorf("duplicate rule ID %q (already registered at tier %d)", rule.ID, existing.Tier)
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// RulesForTier returns the cumulative ordered rule list for a tier.
//
// # Description
//
// Tier 1 rules first, then tier 2's additions, then tier 3's, each block
// in declaration order. Severities are resolved for the requested tier
// (escalating rules report their escalated severity). Pure function over
// the registered data; no side effects.
//
// # Inputs
//
//   - tier: Compliance tier, must be 1, 2 or 3.
//
// # Outputs
//
//   - []Rule: Defensive copy of the applicable rules.
//   - error: ErrInvalidTier if the tier is undefined.
func (r *Registry) RulesForTier(tier int) ([]Rule, error) {
	if !ValidTier(tier) {
		return nil, fmt.Errorf("tier %d: %w", tier, ErrInvalidTier)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.rules))
	for t := TierMin; t <= tier; t++ {
		for _, rule := range r.rules {
			if rule.Tier != t {
				continue
			}
			resolved := rule
			resolved.Severity = rule.SeverityAt(tier)
			result = append(result, resolved)
		}
	}
	return result, nil
}

// Len returns the total number of registered rules across all tiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
