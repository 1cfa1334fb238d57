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
	"github.com/AleutianAI/TrustByDesign/services/compliance/validator"
)

var (
	validateTier int
	validateJSON bool

	validateCmd = &cobra.Command{
		Use:   "validate [config file]",
		Short: "Validate a system configuration against a compliance level",
		Long: `Evaluates the declared configuration against the cumulative rule
set for the requested level (1-3) and prints each finding.`,
		Args: cobra.ExactArgs(1),
		Run:  runValidate,
	}
)

func init() {
	validateCmd.Flags().IntVarP(&validateTier, "level", "l", 1, "compliance level (1-3)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output findings as JSON")
}

// runValidate is the CLI handler for "trustctl validate".
//
// # Exit Codes
//
//   - 0: All rules passed or only warnings failed
//   - 1: At least one error-severity rule failed
//   - 2: The config could not be loaded or the level is invalid
func runValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(args[0])
	if err != nil {
		OutputError(validateJSON, "failed to load configuration", err)
		os.Exit(CLIExitError)
	}

	reg, err := registry.New()
	if err != nil {
		OutputError(validateJSON, "failed to load rule registry", err)
		os.Exit(CLIExitError)
	}

	findings, err := validator.New(reg, logger).Validate(context.Background(), cfg, validateTier)
	if err != nil {
		OutputError(validateJSON, "validation failed", err)
		os.Exit(CLIExitError)
	}
	summary := validator.Summarize(findings)

	if validateJSON {
		result := struct {
			Level    int                 `json:"level"`
			Summary  validator.Summary   `json:"summary"`
			Findings []validator.Finding `json:"findings"`
		}{validateTier, summary, findings}
		if err := OutputJSON(result, false); err != nil {
			OutputError(false, "failed to encode JSON", err)
			os.Exit(CLIExitError)
		}
	} else {
		printFindings(findings, summary)
	}

	if !summary.Compliant {
		os.Exit(CLIExitFindings)
	}
}

func printFindings(findings []validator.Finding, summary validator.Summary) {
	fmt.Printf("--- Compliance Validation (Level %d) ---\n", validateTier)
	for _, f := range findings {
		marker := "PASS"
		if f.Status == validator.StatusFail {
			marker = "FAIL"
			if f.Severity == registry.SeverityWarning {
				marker = "WARN"
			}
		}
		fmt.Printf("[%s] %s", marker, f.RuleID)
		if f.Status == validator.StatusFail {
			fmt.Printf(": %s", f.Message)
		}
		fmt.Println()
	}
	fmt.Println("----------------------------------------")
	fmt.Printf("Passed %d/%d rules (score %d%%), errors: %d, warnings: %d\n",
		summary.Passed, summary.Total, summary.Score, summary.Errors, summary.Warnings)
	if summary.Compliant {
		fmt.Println("Result: COMPLIANT")
	} else {
		fmt.Println("Result: NOT COMPLIANT")
	}
}
