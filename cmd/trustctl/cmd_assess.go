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
	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
	"github.com/AleutianAI/TrustByDesign/services/compliance/trust"
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

var (
	assessTier     int
	assessRiskFile string
	assessJSON     bool

	assessCmd = &cobra.Command{
		Use:   "assess [config file]",
		Short: "Compute a trust assessment for a system",
		Long: `Validates the configuration, scores the optional risk register and
derives the six-dimension trust assessment.`,
		Args: cobra.ExactArgs(1),
		Run:  runAssess,
	}
)

func init() {
	assessCmd.Flags().IntVarP(&assessTier, "level", "l", 1, "compliance level (1-3)")
	assessCmd.Flags().StringVarP(&assessRiskFile, "risk-file", "r", "", "optional risk register YAML file")
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "output assessment as JSON")
}

// runAssess is the CLI handler for "trustctl assess".
//
// # Exit Codes
//
//   - 0: Assessment computed, trust level medium or better
//   - 1: Trust level low
//   - 2: Inputs could not be loaded
func runAssess(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(args[0])
	if err != nil {
		OutputError(assessJSON, "failed to load configuration", err)
		os.Exit(CLIExitError)
	}

	reg, err := registry.New()
	if err != nil {
		OutputError(assessJSON, "failed to load rule registry", err)
		os.Exit(CLIExitError)
	}
	findings, err := validator.New(reg, logger).Validate(ctx, cfg, assessTier)
	if err != nil {
		OutputError(assessJSON, "validation failed", err)
		os.Exit(CLIExitError)
	}

	var riskSummary risk.Summary
	if assessRiskFile != "" {
		loaded, err := risk.LoadFile(assessRiskFile)
		if err != nil {
			OutputError(assessJSON, "failed to load risk file", err)
			os.Exit(CLIExitError)
		}
		riskSummary = risk.Aggregate(loaded.Entries, risk.DefaultBands())
	}

	assessment, err := trust.NewAssessor(logger).Assess(ctx, findings, riskSummary)
	if err != nil {
		OutputError(assessJSON, "assessment failed", err)
		os.Exit(CLIExitError)
	}

	if assessJSON {
		if err := OutputJSON(assessment, false); err != nil {
			OutputError(false, "failed to encode JSON", err)
			os.Exit(CLIExitError)
		}
	} else {
		fmt.Println("--- Trust Assessment ---")
		for _, d := range trust.Dimensions {
			fmt.Printf("  %-14s %.1f\n", d, assessment.DimensionScores[d])
		}
		fmt.Println("------------------------")
		fmt.Printf("Overall: %.1f / 10 (%s)\n", assessment.OverallScore, assessment.Level)
	}

	if assessment.Level == trust.LevelLow {
		os.Exit(CLIExitFindings)
	}
}
