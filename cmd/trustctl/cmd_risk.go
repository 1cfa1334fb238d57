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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
)

var (
	riskFile string
	riskJSON bool

	riskCmd = &cobra.Command{
		Use:   "risk",
		Short: "Work with risk register files",
	}

	riskSummaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Score a risk register and print the aggregate posture",
		Run:   runRiskSummary,
	}
)

func init() {
	riskSummaryCmd.Flags().StringVarP(&riskFile, "risk-file", "r", "", "risk register YAML file (required)")
	riskSummaryCmd.Flags().BoolVar(&riskJSON, "json", false, "output summary as JSON")
	_ = riskSummaryCmd.MarkFlagRequired("risk-file")
}

// runRiskSummary is the CLI handler for "trustctl risk summary".
//
// # Exit Codes
//
//   - 0: Register scored, no critical open risks
//   - 1: At least one critical open risk or unscoreable entry
//   - 2: The risk file could not be loaded
func runRiskSummary(cmd *cobra.Command, args []string) {
	loaded, err := risk.LoadFile(riskFile)
	if err != nil {
		OutputError(riskJSON, "failed to load risk file", err)
		os.Exit(CLIExitError)
	}

	bands := risk.DefaultBands()
	summary := risk.Aggregate(loaded.Entries, bands)
	summary.Failures = append(summary.Failures, loaded.Failures...)

	if riskJSON {
		if err := OutputJSON(summary, false); err != nil {
			OutputError(false, "failed to encode JSON", err)
			os.Exit(CLIExitError)
		}
	} else {
		printRiskSummary(summary, bands, loaded.Entries)
	}

	if summary.ByBand[risk.BandCritical] > 0 || len(summary.Failures) > 0 {
		os.Exit(CLIExitFindings)
	}
}

func printRiskSummary(summary risk.Summary, bands risk.BandThresholds, entries []risk.Entry) {
	fmt.Println("--- Risk Register Summary ---")
	fmt.Printf("Open risks: %d (total score %.1f)\n", summary.OpenCount, summary.OpenTotal)
	fmt.Printf("Closed risks: %d (historical score %.1f)\n", summary.ClosedCount, summary.ClosedTotal)

	for _, band := range []risk.Band{risk.BandCritical, risk.BandHigh, risk.BandMedium, risk.BandLow} {
		if count := summary.ByBand[band]; count > 0 {
			fmt.Printf("  %s: %d\n", band, count)
		}
	}
	if summary.Highest != nil {
		fmt.Printf("Highest: %s (%.1f, %s)\n",
			summary.Highest.Entry.ID, summary.Highest.Score, summary.Highest.Band)
	}

	if len(summary.Failures) > 0 {
		fmt.Println("Unscoreable entries:")
		for _, f := range summary.Failures {
			fmt.Printf("  %s: %s\n", f.ID, f.Reason)
		}
	}

	scored := risk.ScoreAll(entries, bands)
	if len(scored) > 0 {
		fmt.Println("\nRisks by score:")
		for _, se := range scored {
			fmt.Printf("  %-24s %5.1f  %-8s %s\n",
				se.Entry.ID, se.Score, se.Band, se.Entry.Status)
		}
	}
}
