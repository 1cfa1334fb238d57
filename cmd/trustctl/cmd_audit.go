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

	"github.com/AleutianAI/TrustByDesign/services/compliance/audit"
	"github.com/AleutianAI/TrustByDesign/services/compliance/audit/badgerstore"
)

var (
	auditDir       string
	auditJSON      bool
	auditEventType string

	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Inspect and verify the audit trail",
	}

	auditVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify the integrity of a persisted audit chain",
		Run:   runAuditVerify,
	}

	auditListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the entries of a persisted audit chain",
		Run:   runAuditList,
	}
)

func init() {
	auditCmd.PersistentFlags().StringVarP(&auditDir, "dir", "d", "", "audit store directory (required)")
	auditCmd.PersistentFlags().BoolVar(&auditJSON, "json", false, "output as JSON")
	auditListCmd.Flags().StringVarP(&auditEventType, "event-type", "t", "", "filter by event type")
	_ = auditCmd.MarkPersistentFlagRequired("dir")
}

func loadPersistedChain() []audit.Entry {
	store, err := badgerstore.Open(badgerstore.DefaultConfig(auditDir))
	if err != nil {
		OutputError(auditJSON, "failed to open audit store", err)
		os.Exit(CLIExitError)
	}
	defer store.Close()

	entries, err := store.Load(context.Background())
	if err != nil {
		OutputError(auditJSON, "failed to load audit chain", err)
		os.Exit(CLIExitError)
	}
	return entries
}

// runAuditVerify is the CLI handler for "trustctl audit verify".
//
// # Exit Codes
//
//   - 0: Chain intact
//   - 1: Chain broken; output names the first bad seq
//   - 2: Store could not be opened or read
func runAuditVerify(cmd *cobra.Command, args []string) {
	entries := loadPersistedChain()
	result := audit.VerifyEntries(entries)

	if auditJSON {
		if err := OutputJSON(result, false); err != nil {
			OutputError(false, "failed to encode JSON", err)
			os.Exit(CLIExitError)
		}
	} else if result.Valid {
		fmt.Printf("Audit chain valid over %d entries.\n", result.Entries)
	} else {
		fmt.Printf("Audit chain BROKEN at seq %d: %s\n", *result.BreakAtSeq, result.Reason)
	}

	if !result.Valid {
		os.Exit(CLIExitFindings)
	}
}

// runAuditList is the CLI handler for "trustctl audit list".
func runAuditList(cmd *cobra.Command, args []string) {
	entries := loadPersistedChain()

	if auditEventType != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.EventType == auditEventType {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if auditJSON {
		if err := OutputJSON(entries, false); err != nil {
			OutputError(false, "failed to encode JSON", err)
			os.Exit(CLIExitError)
		}
		return
	}

	for _, e := range entries {
		fmt.Println(entryRow(e))
	}
	fmt.Printf("%d entries.\n", len(entries))
}

// entryRow renders one chain entry for the plain-text listing. The hash
// column is truncated with a precision verb; a tampered store may hold
// hashes of any length.
func entryRow(e audit.Entry) string {
	return fmt.Sprintf("%6d  %-30s %-24s %.12s", e.Seq, e.Timestamp, e.EventType, e.EntryHash)
}
