// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validator evaluates a declared system configuration against the
// tiered compliance rule sets.
//
// Validation is pure with respect to shared state: the same config and
// tier always produce the same ordered finding list. A single failing or
// panicking rule never aborts the run; it becomes a fail finding and the
// remaining rules still execute.
package validator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/TrustByDesign/services/compliance/config"
	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/telemetry"
)

// Status is the outcome of evaluating one rule against one configuration.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Finding is the result of evaluating one rule.
//
// Findings are produced fresh on every validation call and are not
// persisted by the validator; callers decide whether to record them in
// the audit log.
type Finding struct {
	// RuleID identifies the evaluated rule.
	RuleID string `json:"rule_id"`

	// Status is pass or fail.
	Status Status `json:"status"`

	// Severity is the effective severity at the validated tier.
	Severity registry.Severity `json:"severity"`

	// Message describes the outcome.
	Message string `json:"message"`
}

// Summary aggregates a finding list the way compliance reports consume it.
type Summary struct {
	// Total is the number of rules evaluated.
	Total int `json:"total"`

	// Passed is the number of passing findings.
	Passed int `json:"passed"`

	// Errors is the number of failed error-severity findings.
	Errors int `json:"errors"`

	// Warnings is the number of failed warning-severity findings.
	Warnings int `json:"warnings"`

	// Score is the compliance score percentage (passed / total * 100).
	Score int `json:"score"`

	// Compliant is true when no error-severity finding failed.
	Compliant bool `json:"compliant"`
}

// Validator evaluates configurations against a rule registry.
//
// # Thread Safety
//
// Safe for concurrent use; the validator holds no mutable state.
type Validator struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a Validator over the given rule registry.
//
// # Inputs
//
//   - reg: The rule registry. Must not be nil.
//   - logger: Optional structured logger. Nil disables logging.
//
// # Outputs
//
//   - *Validator: The configured validator.
func New(reg *registry.Registry, logger *slog.Logger) *Validator {
	return &Validator{registry: reg, logger: logger}
}

// Validate evaluates the configuration against the cumulative rule set
// for a tier.
//
// # Description
//
// For each rule in registry order, evaluates the rule's check against
// the config. A panic inside a check (custom predicates included) is
// converted to a fail finding with error severity identifying the rule
// and the panic; remaining rules still run. The returned order matches
// rule evaluation order, so repeated calls with identical inputs yield
// identical finding lists.
//
// An empty config, or one missing required keys, produces fail findings
// for the affected rules; the validator only errors for programmer
// mistakes (nil context, invalid tier).
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - cfg: The declared configuration. May be empty; must not be nil.
//   - tier: Compliance tier, must be 1, 2 or 3.
//
// # Outputs
//
//   - []Finding: One finding per applicable rule, in evaluation order.
//   - error: registry.ErrInvalidTier for an undefined tier; otherwise
//     non-nil only for nil inputs.
func (v *Validator) Validate(ctx context.Context, cfg *config.SystemConfig, tier int) ([]Finding, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	rules, err := v.registry.RulesForTier(tier)
	if err != nil {
		return nil, err
	}

	_, span := telemetry.Tracer().Start(ctx, "validator.Validate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("compliance.tier", tier),
		attribute.Int("compliance.rule_count", len(rules)),
	)

	telemetry.ValidationRuns.WithLabelValues(fmt.Sprintf("%d", tier)).Inc()

	findings := make([]Finding, 0, len(rules))
	failed := 0
	for _, rule := range rules {
		f := v.evaluateRule(rule, cfg)
		if f.Status == StatusFail {
			failed++
		}
		telemetry.Findings.WithLabelValues(string(f.Status), string(f.Severity)).Inc()
		findings = append(findings, f)
	}

	span.SetAttributes(attribute.Int("compliance.failed", failed))

	if v.logger != nil {
		v.logger.Info("validation run complete",
			slog.Int("tier", tier),
			slog.Int("rules", len(rules)),
			slog.Int("failed", failed),
		)
	}

	return findings, nil
}

// evaluateRule evaluates a single rule, isolating panics.
func (v *Validator) evaluateRule(rule registry.Rule, cfg *config.SystemConfig) (f Finding) {
	defer func() {
		if r := recover(); r != nil {
			f = Finding{
				RuleID:   rule.ID,
				Status:   StatusFail,
				Severity: registry.SeverityError,
				Message:  fmt.Sprintf("rule %q: check panicked: %v", rule.ID, r),
			}
			if v.logger != nil {
				v.logger.Error("rule check panicked",
					slog.String("rule_id", rule.ID),
					slog.Any("panic", r),
				)
			}
		}
	}()

	ok, detail := rule.Check.Evaluate(cfg)
	if ok {
		return Finding{
			RuleID:   rule.ID,
			Status:   StatusPass,
			Severity: rule.Severity,
			Message:  detail,
		}
	}
	return Finding{
		RuleID:   rule.ID,
		Status:   StatusFail,
		Severity: rule.Severity,
		Message:  fmt.Sprintf("%s: %s", rule.Description, detail),
	}
}

// Summarize aggregates findings into the pass/fail summary reports use.
func Summarize(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch {
		case f.Status == StatusPass:
			s.Passed++
		case f.Severity == registry.SeverityError:
			s.Errors++
		default:
			s.Warnings++
		}
	}
	if s.Total > 0 {
		s.Score = s.Passed * 100 / s.Total
	}
	s.Compliant = s.Errors == 0
	return s
}
