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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/TrustByDesign/services/compliance/config"
	"github.com/AleutianAI/TrustByDesign/services/compliance/registry"
	"github.com/AleutianAI/TrustByDesign/services/compliance/report"
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/trust"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

var (
	reportTier     int
	reportRiskFile string
	reportOutput   string
	reportJSON     bool

	reportCmd = &cobra.Command{
		Use:   "report [config file]",
		Short: "Generate a full trust report for a system",
		Long: `Runs validation, risk scoring and trust assessment, then renders
the combined trust report as markdown (default) or JSON.`,
		Args: cobra.ExactArgs(1),
		Run:  runReport,
	}
)

func init() {
	reportCmd.Flags().IntVarP(&reportTier, "level", "l", 1, "compliance level (1-3)")
	reportCmd.Flags().StringVarP(&reportRiskFile, "risk-file", "r", "", "optional risk register YAML file")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write report to file instead of stdout")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "render the report as JSON")
}

// runReport is the CLI handler for "trustctl report".
//
// # Exit Codes
//
//   - 0: Report generated
//   - 1: Report generated but the system is not compliant
//   - 2: Inputs could not be loaded or the report not written
func runReport(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(args[0])
	if err != nil {
		OutputError(reportJSON, "failed to load configuration", err)
		os.Exit(CLIExitError)
	}

	reg, err := registry.New()
	if err != nil {
		OutputError(reportJSON, "failed to load rule registry", err)
		os.Exit(CLIExitError)
	}
	findings, err := validator.New(reg, logger).Validate(ctx, cfg, reportTier)
	if err != nil {
		OutputError(reportJSON, "validation failed", err)
		os.Exit(CLIExitError)
	}

	builder := report.NewBuilder(cfg.System.Name, cfg.System.Version).
		WithFindings(reportTier, findings)

	var riskSummary risk.Summary
	if reportRiskFile != "" {
		loaded, err := risk.LoadFile(reportRiskFile)
		if err != nil {
			OutputError(reportJSON, "failed to load risk file", err)
			os.Exit(CLIExitError)
		}
		builder.WithRisks(loaded.Entries, risk.DefaultBands())
		riskSummary = risk.Aggregate(loaded.Entries, risk.DefaultBands())
	}

	assessment, err := trust.NewAssessor(logger).Assess(ctx, findings, riskSummary)
	if err != nil {
		OutputError(reportJSON, "assessment failed", err)
		os.Exit(CLIExitError)
	}
	builder.WithTrust(assessment)

	rpt := builder.Build()

	var rendered []byte
	if reportJSON {
		rendered, err = rpt.JSON()
		if err != nil {
			OutputError(reportJSON, "failed to render report", err)
			os.Exit(CLIExitError)
		}
	} else {
		rendered = []byte(rpt.Markdown())
	}

	if reportOutput != "" {
		if err := os.WriteFile(reportOutput, rendered, 0644); err != nil {
			OutputError(reportJSON, "failed to write report", err)
			os.Exit(CLIExitError)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportOutput)
	} else {
		fmt.Print(string(rendered))
	}

	if !rpt.Compliance.Compliant {
		os.Exit(CLIExitFindings)
	}
}
