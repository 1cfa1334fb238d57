// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trust

import (
	"strings"

	"github.com/AleutianAI/TrustByDesign/services/compliance/risk"
)

// Dimension is one axis of the trust assessment.
type Dimension string

const (
	DimensionIdentity     Dimension = "identity"
	DimensionContinuity   Dimension = "continuity"
	DimensionBehavioral   Dimension = "behavioral"
	DimensionGovernance   Dimension = "governance"
	DimensionTransparency Dimension = "transparency"
	DimensionUserAgency   Dimension = "user_agency"
)

// Dimensions lists all trust dimensions in reporting order.
var Dimensions = []Dimension{
	DimensionIdentity,
	DimensionContinuity,
	DimensionBehavioral,
	DimensionGovernance,
	DimensionTransparency,
	DimensionUserAgency,
}

// ruleDimensions maps compliance rule ID prefixes to the dimension a
// failing rule deducts from. Longest matching prefix wins; unmapped
// rules deduct from governance.
var ruleDimensions = map[string]Dimension{
	"system.":                            DimensionIdentity,
	"capabilities.":                      DimensionBehavioral,
	"boundaries.":                        DimensionBehavioral,
	"transparency.":                      DimensionTransparency,
	"consent.":                           DimensionUserAgency,
	"memory_safety.user_can_view":        DimensionUserAgency,
	"memory_safety.user_can_delete":      DimensionUserAgency,
	"memory_safety.deletion_is_complete": DimensionContinuity,
	"memory_safety.operations_logged":    DimensionContinuity,
	"audit.":                             DimensionGovernance,
	"governance.":                        DimensionGovernance,
}

// categoryDimensions maps risk categories to the dimension their live
// risk exposure deducts from. Unmapped categories deduct from
// governance.
var categoryDimensions = map[risk.Category]Dimension{
	risk.CategoryHallucination: DimensionTransparency,
	risk.CategoryPrivacy:       DimensionUserAgency,
	risk.CategoryBias:          DimensionBehavioral,
	risk.CategoryAutonomy:      DimensionBehavioral,
	risk.CategoryMisuse:        DimensionBehavioral,
	risk.CategoryDataQuality:   DimensionContinuity,
	risk.CategoryPerformance:   DimensionContinuity,
	risk.CategorySecurity:      DimensionIdentity,
	risk.CategoryCompliance:    DimensionGovernance,
	risk.CategoryOther:         DimensionGovernance,
}

// DimensionForRule resolves the dimension a rule ID belongs to.
func DimensionForRule(ruleID string) Dimension {
	best := ""
	dim := DimensionGovernance
	for prefix, d := range ruleDimensions {
		if strings.HasPrefix(ruleID, prefix) && len(prefix) > len(best) {
			best = prefix
			dim = d
		}
	}
	return dim
}

// DimensionForCategory resolves the dimension a risk category belongs
// to.
func DimensionForCategory(c risk.Category) Dimension {
	if d, ok := categoryDimensions[c]; ok {
		return d
	}
	return DimensionGovernance
}
