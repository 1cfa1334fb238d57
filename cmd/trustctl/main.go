// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// trustctl is the command-line front end of the TrustByDesign
// compliance engine. It validates system configurations against the
// tiered rule sets, scores risk registers, computes trust assessments,
// maintains the hash-chained audit trail and renders trust reports.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "trustctl",
		Short: "Compliance validation and tamper-evident auditing for AI systems",
		Long: `trustctl validates declared AI system configurations against the
tiered TrustByDesign rule sets, tracks and scores operational risks,
derives multi-dimensional trust assessments and keeps a hash-chained
audit trail of every compliance-relevant event.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskSummaryCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}
}
