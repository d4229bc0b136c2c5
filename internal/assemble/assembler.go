// Package assemble writes the final per-cell parameter map: the filled grid's
// biome/filler defaults, overlaid by every Flow's emitted segments, overlaid by every
// Structure's plot/street descriptors, then flattened into the CellPlan list the
// external persistence collaborator upserts.
package assemble

import (
	"fmt"
	"sort"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/flow"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
)

// Assemble merges filled, flowRes, and structureRes into the final per-cell
// parameter map and returns the sorted CellPlan list ready for persistence.
// Precedence for any key other than "g_builder" is structure > flow > biome/filler
// default. "g_builder" sticks to whichever stage sets it first and is never
// overwritten, since the filled grid's biome/filler pass always runs before flow or
// structure.
func Assemble(worldID string, filled *composition.FilledHexGrid, flowRes *flow.Result, structureRes *structure.Result) []composition.CellPlan {
	merged := make(map[hexmath.Hex]map[string]string, len(filled.Cells))
	for h, cell := range filled.Cells {
		params := make(map[string]string, len(cell.Parameters))
		for k, v := range cell.Parameters {
			params[k] = v
		}
		merged[h] = params
	}

	if flowRes != nil {
		mergeGrids(merged, flowRes.HexGrids)
	}
	if structureRes != nil {
		mergeGrids(merged, structureRes.HexGrids)
	}

	hexes := make([]hexmath.Hex, 0, len(merged))
	for h := range merged {
		hexes = append(hexes, h)
	}
	sort.Slice(hexes, func(i, j int) bool {
		if hexes[i].Q != hexes[j].Q {
			return hexes[i].Q < hexes[j].Q
		}
		return hexes[i].R < hexes[j].R
	})

	plans := make([]composition.CellPlan, 0, len(hexes))
	for _, h := range hexes {
		plans = append(plans, composition.CellPlan{
			WorldID:    worldID,
			Position:   formatPosition(h),
			Parameters: merged[h],
			Enabled:    true,
		})
	}
	return plans
}

func mergeGrids(merged map[hexmath.Hex]map[string]string, grids map[string]*composition.FeatureHexGrid) {
	for _, grid := range grids {
		for h, contrib := range grid.Cells {
			params, ok := merged[h]
			if !ok {
				params = make(map[string]string)
				merged[h] = params
			}
			for k, v := range contrib.Parameters {
				if k == "g_builder" {
					if existing, set := params[k]; set && existing != "" {
						continue
					}
				}
				params[k] = v
			}
		}
	}
}

func formatPosition(h hexmath.Hex) string {
	return fmt.Sprintf("%d:%d", h.Q, h.R)
}
