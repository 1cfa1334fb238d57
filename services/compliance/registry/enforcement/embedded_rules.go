// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
This file bridges the build system and the runtime rule registry. It uses
the Go embed package to bake compliance_rules.yaml directly into the
compiled binary, so the tiered rule definitions are immutable at runtime
and travel with the executable.
*/

package enforcement

import (
	_ "embed"
)

// ComplianceRules holds the raw byte content of 'compliance_rules.yaml'.
//
// Populated at compile time via the Go 'embed' directive. Baking the YAML
// into the binary guarantees the rule set cannot be tampered with on the
// host filesystem without recompiling the application, which is what makes
// rule sets "immutable during a validation run".
//
// Usage:
//
//	// Pass these bytes directly to yaml.Unmarshal
//	err := yaml.Unmarshal(enforcement.ComplianceRules, &targetStruct)
//
//go:embed compliance_rules.yaml
var ComplianceRules []byte
