// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry centralizes the engine's metrics and trace naming.
//
// The engine instruments with the OpenTelemetry API only; exporter and
// SDK wiring belongs to the embedding process. Prometheus collectors are
// registered on the default registry so an embedding service exposing
// /metrics picks them up without extra plumbing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for all engine spans.
const TracerName = "github.com/AleutianAI/TrustByDesign/services/compliance"

// Tracer returns the engine's tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

var (
	// ValidationRuns counts validation runs by tier.
	ValidationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trustbydesign",
		Subsystem: "validator",
		Name:      "runs_total",
		Help:      "Number of configuration validation runs.",
	}, []string{"tier"})

	// Findings counts produced findings by status and severity.
	Findings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trustbydesign",
		Subsystem: "validator",
		Name:      "findings_total",
		Help:      "Number of findings produced, by status and severity.",
	}, []string{"status", "severity"})

	// AuditAppends counts entries appended to the audit log.
	AuditAppends = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trustbydesign",
		Subsystem: "audit",
		Name:      "appends_total",
		Help:      "Number of entries appended to the audit log.",
	})

	// ChainVerifications counts chain verification runs by outcome.
	ChainVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trustbydesign",
		Subsystem: "audit",
		Name:      "chain_verifications_total",
		Help:      "Number of audit chain verifications, by outcome.",
	}, []string{"outcome"})
)
