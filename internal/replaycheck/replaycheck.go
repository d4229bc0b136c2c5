// Package replaycheck verifies that a composition run is deterministic: given the
// same document and seed, two independent Orchestrate calls must produce the same
// result. It is modeled on the teacher's replay validator, which accumulates field-
// by-field mismatches rather than failing at the first difference.
package replaycheck

import (
	"fmt"
	"sort"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/orchestrator"
)

// Mismatch records one field where two composition runs disagreed.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %q, got %q", m.Field, m.Expected, m.Actual)
}

// Verify runs two independent compositions through Orchestrate and reports every
// disagreement Compare finds between the two results. buildComposition is called twice so each
// run starts from its own unmutated composition graph, since the pipeline stages
// write placement/design results back onto the Composition's features in place.
func Verify(buildComposition func() *composition.Composition, opts orchestrator.Options) []Mismatch {
	first := orchestrator.Orchestrate(buildComposition(), opts)
	second := orchestrator.Orchestrate(buildComposition(), opts)
	return Compare(first, second)
}

// Compare reports where a and b disagree in Success, ErrorMessage, the four summary
// counts, the number of warnings (not their text) and the cell plans. The per-stage
// sub-results are not compared.
func Compare(a, b *orchestrator.CompositionResult) []Mismatch {
	var mismatches []Mismatch

	if a.Success != b.Success {
		mismatches = append(mismatches, Mismatch{"Success", fmt.Sprint(a.Success), fmt.Sprint(b.Success)})
	}
	if a.ErrorMessage != b.ErrorMessage {
		mismatches = append(mismatches, Mismatch{"ErrorMessage", a.ErrorMessage, b.ErrorMessage})
	}
	if a.TotalBiomes != b.TotalBiomes {
		mismatches = append(mismatches, Mismatch{"TotalBiomes", fmt.Sprint(a.TotalBiomes), fmt.Sprint(b.TotalBiomes)})
	}
	if a.TotalFlows != b.TotalFlows {
		mismatches = append(mismatches, Mismatch{"TotalFlows", fmt.Sprint(a.TotalFlows), fmt.Sprint(b.TotalFlows)})
	}
	if a.TotalGrids != b.TotalGrids {
		mismatches = append(mismatches, Mismatch{"TotalGrids", fmt.Sprint(a.TotalGrids), fmt.Sprint(b.TotalGrids)})
	}
	if a.FilledGrids != b.FilledGrids {
		mismatches = append(mismatches, Mismatch{"FilledGrids", fmt.Sprint(a.FilledGrids), fmt.Sprint(b.FilledGrids)})
	}
	if len(a.Warnings) != len(b.Warnings) {
		mismatches = append(mismatches, Mismatch{"len(Warnings)", fmt.Sprint(len(a.Warnings)), fmt.Sprint(len(b.Warnings))})
	}

	mismatches = append(mismatches, comparePlans(a.Plans, b.Plans)...)
	return mismatches
}

func comparePlans(a, b []composition.CellPlan) []Mismatch {
	var mismatches []Mismatch
	if len(a) != len(b) {
		mismatches = append(mismatches, Mismatch{"len(Plans)", fmt.Sprint(len(a)), fmt.Sprint(len(b))})
		return mismatches
	}

	byPosition := func(plans []composition.CellPlan) map[string]composition.CellPlan {
		m := make(map[string]composition.CellPlan, len(plans))
		for _, p := range plans {
			m[p.Position] = p
		}
		return m
	}
	aByPos, bByPos := byPosition(a), byPosition(b)

	positions := make([]string, 0, len(aByPos))
	for pos := range aByPos {
		positions = append(positions, pos)
	}
	sort.Strings(positions)

	for _, pos := range positions {
		bp, ok := bByPos[pos]
		if !ok {
			mismatches = append(mismatches, Mismatch{"Plans[" + pos + "]", "present", "missing"})
			continue
		}
		ap := aByPos[pos]
		if ap.Enabled != bp.Enabled {
			mismatches = append(mismatches, Mismatch{"Plans[" + pos + "].Enabled", fmt.Sprint(ap.Enabled), fmt.Sprint(bp.Enabled)})
		}
		if len(ap.Parameters) != len(bp.Parameters) {
			mismatches = append(mismatches, Mismatch{"Plans[" + pos + "].len(Parameters)", fmt.Sprint(len(ap.Parameters)), fmt.Sprint(len(bp.Parameters))})
			continue
		}
		for k, av := range ap.Parameters {
			if bv := bp.Parameters[k]; av != bv {
				mismatches = append(mismatches, Mismatch{"Plans[" + pos + "].Parameters[" + k + "]", av, bv})
			}
		}
	}
	return mismatches
}
