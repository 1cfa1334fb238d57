// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report assembles validation, risk and trust results into
// human-readable compliance reports.
//
// Rendering is a pure function of the report value, so the same inputs
// always produce byte-identical output. Markdown is the primary format;
// JSON export uses the same structure for machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/TrustByDesign/services/compliance/audit"
	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/trust"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

// Report is the assembled compliance picture for one system at one
// point in time.
type Report struct {
	// SystemName identifies the assessed system.
	SystemName string `json:"system_name"`

	// SystemVersion is the assessed system version.
	SystemVersion string `json:"system_version"`

	// Tier is the compliance tier the system was validated at.
	Tier int `json:"tier"`

	// GeneratedAt is the report timestamp, UTC.
	GeneratedAt time.Time `json:"generated_at"`

	// Findings are the validation findings, in evaluation order.
	Findings []validator.Finding `json:"findings,omitempty"`

	// Compliance summarizes the findings.
	Compliance validator.Summary `json:"compliance"`

	// Risks is the aggregate risk posture.
	Risks *risk.Summary `json:"risks,omitempty"`

	// ScoredRisks are individual risks with scores, highest first.
	ScoredRisks []risk.ScoredEntry `json:"scored_risks,omitempty"`

	// Trust is the trust assessment, when one was computed.
	Trust *trust.Assessment `json:"trust,omitempty"`

	// Chain is the audit chain verification result, when the caller
	// included one.
	Chain *audit.VerificationResult `json:"chain,omitempty"`

	// Notes are free-form reviewer observations.
	Notes []string `json:"notes,omitempty"`
}

// Builder accumulates report inputs.
type Builder struct {
	report Report
	now    func() time.Time
}

// NewBuilder creates a Builder for the named system.
func NewBuilder(systemName, systemVersion string) *Builder {
	if systemName == "" {
		systemName = "AI System"
	}
	return &Builder{
		report: Report{SystemName: systemName, SystemVersion: systemVersion},
		now:    time.Now,
	}
}

// WithFindings attaches validation findings and their tier.
func (b *Builder) WithFindings(tier int, findings []validator.Finding) *Builder {
	b.report.Tier = tier
	b.report.Findings = findings
	b.report.Compliance = validator.Summarize(findings)
	return b
}

// WithRisks attaches the risk register contents.
func (b *Builder) WithRisks(entries []risk.Entry, bands risk.BandThresholds) *Builder {
	summary := risk.Aggregate(entries, bands)
	b.report.Risks = &summary
	b.report.ScoredRisks = risk.ScoreAll(entries, bands)
	return b
}

// WithTrust attaches a trust assessment.
func (b *Builder) WithTrust(a *trust.Assessment) *Builder {
	b.report.Trust = a
	return b
}

// WithChain attaches an audit chain verification result.
func (b *Builder) WithChain(result audit.VerificationResult) *Builder {
	b.report.Chain = &result
	return b
}

// AddNote appends a free-form observation.
func (b *Builder) AddNote(note string) *Builder {
	b.report.Notes = append(b.report.Notes, note)
	return b
}

// Build finalizes the report with the current timestamp.
func (b *Builder) Build() Report {
	b.report.GeneratedAt = b.now().UTC()
	return b.report
}

// JSON renders the report as indented JSON.
func (r Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Trust Report: %s\n", r.SystemName)
	if r.SystemVersion != "" {
		fmt.Fprintf(&sb, "**Version**: %s\n", r.SystemVersion)
	}
	fmt.Fprintf(&sb, "**Generated**: %s\n\n---\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	r.writeExecutiveSummary(&sb)
	r.writeComplianceSection(&sb)
	r.writeRiskSection(&sb)
	r.writeTrustSection(&sb)
	r.writeChainSection(&sb)

	if len(r.Notes) > 0 {
		sb.WriteString("## Additional Notes\n\n")
		for _, note := range r.Notes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
		sb.WriteString("\n")
	}

	r.writeRecommendations(&sb)

	sb.WriteString("---\n\n")
	sb.WriteString("*Generated by the TrustByDesign compliance engine.*\n")
	return sb.String()
}

func (r Report) writeExecutiveSummary(sb *strings.Builder) {
	sb.WriteString("## Executive Summary\n\n")

	status := "Compliant"
	if !r.Compliance.Compliant {
		status = "Not compliant"
	}
	fmt.Fprintf(sb, "**Compliance (Level %d)**: %s, score %d%%\n", r.Tier, status, r.Compliance.Score)
	fmt.Fprintf(sb, "- Rules evaluated: %d\n", r.Compliance.Total)
	fmt.Fprintf(sb, "- Errors: %d\n", r.Compliance.Errors)
	fmt.Fprintf(sb, "- Warnings: %d\n\n", r.Compliance.Warnings)

	if r.Risks != nil {
		fmt.Fprintf(sb, "**Open Risks**: %d (total score %.1f)\n", r.Risks.OpenCount, r.Risks.OpenTotal)
		fmt.Fprintf(sb, "- Critical: %d\n", r.Risks.ByBand[risk.BandCritical])
		fmt.Fprintf(sb, "- High: %d\n\n", r.Risks.ByBand[risk.BandHigh])
	}

	if r.Trust != nil {
		fmt.Fprintf(sb, "**Trust Score**: %.1f / 10 (%s)\n\n", r.Trust.OverallScore, r.Trust.Level)
	}
}

func (r Report) writeComplianceSection(sb *strings.Builder) {
	if len(r.Findings) == 0 {
		return
	}
	sb.WriteString("## Compliance Findings\n\n")

	var errorFindings, warningFindings []validator.Finding
	for _, f := range r.Findings {
		if f.Status == validator.StatusPass {
			continue
		}
		if f.Severity == registry.SeverityError {
			errorFindings = append(errorFindings, f)
		} else {
			warningFindings = append(warningFindings, f)
		}
	}

	if len(errorFindings) == 0 && len(warningFindings) == 0 {
		sb.WriteString("All rules passed.\n\n")
		return
	}

	if len(errorFindings) > 0 {
		sb.WriteString("### Errors\n\n")
		for _, f := range errorFindings {
			fmt.Fprintf(sb, "- **%s**: %s\n", f.RuleID, f.Message)
		}
		sb.WriteString("\n")
	}
	if len(warningFindings) > 0 {
		sb.WriteString("### Warnings\n\n")
		for _, f := range warningFindings {
			fmt.Fprintf(sb, "- **%s**: %s\n", f.RuleID, f.Message)
		}
		sb.WriteString("\n")
	}
}

func (r Report) writeRiskSection(sb *strings.Builder) {
	if r.Risks == nil {
		return
	}
	sb.WriteString("## Risk Assessment\n\n")
	fmt.Fprintf(sb, "Open risks: %d, closed risks: %d\n\n", r.Risks.OpenCount, r.Risks.ClosedCount)

	if len(r.Risks.ByBand) > 0 {
		sb.WriteString("**By Severity Band:**\n")
		for _, band := range []risk.Band{risk.BandCritical, risk.BandHigh, risk.BandMedium, risk.BandLow} {
			if count := r.Risks.ByBand[band]; count > 0 {
				fmt.Fprintf(sb, "- %s: %d\n", band, count)
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Risks.ByCategory) > 0 {
		categories := make([]risk.Category, 0, len(r.Risks.ByCategory))
		for c := range r.Risks.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		sb.WriteString("**By Category (score):**\n")
		for _, c := range categories {
			fmt.Fprintf(sb, "- %s: %.1f\n", c, r.Risks.ByCategory[c])
		}
		sb.WriteString("\n")
	}

	var highPriority []risk.ScoredEntry
	for _, se := range r.ScoredRisks {
		if se.Entry.Open() && (se.Band == risk.BandCritical || se.Band == risk.BandHigh) {
			highPriority = append(highPriority, se)
		}
	}
	if len(highPriority) > 0 {
		sb.WriteString("### High Priority Risks\n\n")
		sb.WriteString("| ID | Title | Score | Band | Status | Owner |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, se := range highPriority {
			owner := se.Entry.Owner
			if owner == "" {
				owner = "Unassigned"
			}
			fmt.Fprintf(sb, "| %s | %s | %.1f | %s | %s | %s |\n",
				se.Entry.ID, se.Entry.Title, se.Score, se.Band, se.Entry.Status, owner)
		}
		sb.WriteString("\n")
	}

	if len(r.Risks.Failures) > 0 {
		sb.WriteString("### Unscoreable Entries\n\n")
		for _, f := range r.Risks.Failures {
			fmt.Fprintf(sb, "- **%s**: %s\n", f.ID, f.Reason)
		}
		sb.WriteString("\n")
	}
}

func (r Report) writeTrustSection(sb *strings.Builder) {
	if r.Trust == nil {
		return
	}
	sb.WriteString("## Trust Assessment\n\n")
	fmt.Fprintf(sb, "Overall: **%.1f / 10** (%s)\n\n", r.Trust.OverallScore, r.Trust.Level)

	sb.WriteString("| Dimension | Score |\n|---|---|\n")
	for _, d := range trust.Dimensions {
		fmt.Fprintf(sb, "| %s | %.1f |\n", d, r.Trust.DimensionScores[d])
	}
	sb.WriteString("\n")
}

func (r Report) writeChainSection(sb *strings.Builder) {
	if r.Chain == nil {
		return
	}
	sb.WriteString("## Audit Chain\n\n")
	if r.Chain.Valid {
		fmt.Fprintf(sb, "Chain valid over %d entries.\n\n", r.Chain.Entries)
		return
	}
	fmt.Fprintf(sb, "**Chain broken at seq %d**: %s\n\n", *r.Chain.BreakAtSeq, r.Chain.Reason)
}

func (r Report) writeRecommendations(sb *strings.Builder) {
	sb.WriteString("## Recommendations\n\n")

	var recs []string
	if r.Compliance.Errors > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d compliance error(s) before proceeding", r.Compliance.Errors))
	}
	if r.Compliance.Warnings > 5 {
		recs = append(recs, "High number of warnings, consider a comprehensive policy review")
	}
	if r.Risks != nil {
		if critical := r.Risks.ByBand[risk.BandCritical]; critical > 0 {
			recs = append(recs, fmt.Sprintf("URGENT: address %d critical risk(s) before deployment", critical))
		}
	}
	if r.Chain != nil && !r.Chain.Valid {
		recs = append(recs, "Investigate the audit chain break; recorded history cannot be trusted past it")
	}
	if len(recs) == 0 {
		recs = append(recs,
			"No urgent recommendations at this time",
			"Continue monitoring and regular risk reviews")
	}
	for _, rec := range recs {
		fmt.Fprintf(sb, "- %s\n", rec)
	}
	sb.WriteString("\n")
}
