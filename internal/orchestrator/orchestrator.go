// Package orchestrator wires the Preparer, BiomeComposer, PointComposer, GapFiller,
// FlowComposer, StructureDesigner, and Assembler into the single call described in
// §4.9: one composition in, one CompositionResult out, no internal parallelism.
package orchestrator

import (
	"github.com/mhus/nimbus-world-sub007/internal/assemble"
	"github.com/mhus/nimbus-world-sub007/internal/biome"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/flow"
	"github.com/mhus/nimbus-world-sub007/internal/gapfill"
	"github.com/mhus/nimbus-world-sub007/internal/logging"
	"github.com/mhus/nimbus-world-sub007/internal/persistence"
	"github.com/mhus/nimbus-world-sub007/internal/points"
	"github.com/mhus/nimbus-world-sub007/internal/preparer"
	"github.com/mhus/nimbus-world-sub007/internal/structure"
)

// Options configures one orchestration call.
type Options struct {
	// TemplateProvider resolves Structure templates; required if the composition
	// declares any Structure feature.
	TemplateProvider structure.TemplateProvider
	// OceanBorderRings is the width of the ocean filler ring GapFiller adds past the
	// outermost land/coast cells.
	OceanBorderRings int
	// GenerateHexGrids controls whether the assembled cell plan is handed to Store.
	GenerateHexGrids bool
	// Store is the external persistence collaborator. Only called when
	// GenerateHexGrids is true and Store is non-nil.
	Store persistence.Store
	// Log receives stage-tagged progress lines; defaults to logging.Default if nil.
	Log *logging.Logger
}

// CompositionResult is the orchestrator's output, per §6.3: success/warnings plus the
// sub-results of each stage and the summary counts downstream consumers rely on.
type CompositionResult struct {
	Success      bool
	ErrorMessage string
	Warnings     []string

	Placement *biome.Result
	Fill      *gapfill.Result
	Flow      *flow.Result
	Structure *structure.Result
	Filled    *composition.FilledHexGrid

	TotalBiomes int
	TotalGrids  int
	FilledGrids int
	TotalFlows  int

	Plans []composition.CellPlan
}

// Orchestrate runs one composition through every pipeline stage in order.
// InvalidInput from the Preparer short-circuits before any other stage runs. Every
// other stage's per-feature failures are folded into Warnings and the pipeline
// continues, except: TemplateNotFound failures from StructureDesigner always mark the
// whole call unsuccessful (§7 lists TemplateNotFound as unconditionally fatal), and any
// other per-feature error additionally escalates to fatal when the originating feature
// has force=true (§7's force exception on top of the fatal/non-fatal table).
func Orchestrate(comp *composition.Composition, opts Options) *CompositionResult {
	res := &CompositionResult{Success: true}
	logger := opts.Log
	if logger == nil {
		logger = logging.Default("orchestrator")
	}

	prepErrs := preparer.Prepare(comp)
	if len(prepErrs) != 0 {
		res.Success = false
		res.ErrorMessage = prepErrs[0].Error()
		for _, err := range prepErrs {
			res.Warnings = append(res.Warnings, err.Error())
		}
		logger.Stage("preparer").Printf("aborting: %s", res.ErrorMessage)
		return res
	}

	res.Placement = biome.ComposeAll(comp, comp.WorldID, comp.Seed)
	res.TotalBiomes = len(res.Placement.PlacedBiomes)
	appendWarnings(res, res.Placement.Errors)
	logger.Stage("biome").Printf("placed %d of %d biomes", res.TotalBiomes, countFeatures(comp, composition.KindArea))

	pointRes := points.ComposeAll(comp, res.Placement, comp.Seed)
	appendWarningsAndEscalate(res, comp, pointRes.Errors)
	logger.Stage("points").Printf("placed %d points", pointRes.Placed)

	oceanRings := opts.OceanBorderRings
	if oceanRings <= 0 {
		oceanRings = 2
	}
	res.Fill = gapfill.Fill(res.Placement, comp, comp.WorldID, oceanRings)
	res.Filled = res.Fill.Grid
	res.FilledGrids = len(res.Filled.Cells)
	for _, w := range res.Fill.Warnings {
		res.Warnings = append(res.Warnings, w)
	}
	logger.Stage("gapfill").Printf("filled grid has %d cells", res.FilledGrids)

	res.Flow = flow.ComposeAll(comp, res.Placement, res.Filled, comp.Seed)
	res.TotalFlows = len(res.Flow.HexGrids)
	appendWarningsAndEscalate(res, comp, res.Flow.Errors)
	logger.Stage("flow").Printf("routed %d flows, %d segments", res.TotalFlows, res.Flow.TotalSegments)

	if opts.TemplateProvider != nil {
		res.Structure = structure.ComposeAll(comp, opts.TemplateProvider)
	} else {
		res.Structure = &structure.Result{HexGrids: make(map[string]*composition.FeatureHexGrid)}
	}
	for _, err := range res.Structure.Errors {
		res.Warnings = append(res.Warnings, err.Error())
		if isTemplateNotFound(err) {
			res.Success = false
			if res.ErrorMessage == "" {
				res.ErrorMessage = err.Error()
			}
		}
	}
	logger.Stage("structure").Printf("designed %d structures", len(res.Structure.HexGrids))

	res.TotalGrids = len(res.Placement.HexGrids) + len(res.Flow.HexGrids) + len(res.Structure.HexGrids)

	res.Plans = assemble.Assemble(comp.WorldID, res.Filled, res.Flow, res.Structure)

	if opts.GenerateHexGrids && opts.Store != nil {
		if err := opts.Store.UpsertCellPlans(res.Plans); err != nil {
			res.Success = false
			res.ErrorMessage = err.Error()
		}
		logger.Stage("persistence").Printf("persisted %d cell plans", len(res.Plans))
	}

	return res
}

func countFeatures(comp *composition.Composition, kind composition.Kind) int {
	n := 0
	for _, f := range comp.Features {
		if f.Header.Kind == kind {
			n++
		}
	}
	return n
}

func appendWarnings(res *CompositionResult, errs []error) {
	for _, err := range errs {
		res.Warnings = append(res.Warnings, err.Error())
	}
}

// appendWarningsAndEscalate folds errs into res.Warnings, then additionally marks the
// whole call unsuccessful for any error whose originating feature has force=true.
func appendWarningsAndEscalate(res *CompositionResult, comp *composition.Composition, errs []error) {
	for _, err := range errs {
		res.Warnings = append(res.Warnings, err.Error())
		if isForced(comp, err) {
			res.Success = false
			if res.ErrorMessage == "" {
				res.ErrorMessage = err.Error()
			}
		}
	}
}

// isForced reports whether err names a feature that is a Flow with force=true. Only
// Flow features carry a Force field; errors from other stages never escalate this way.
func isForced(comp *composition.Composition, err error) bool {
	id, ok := errFeatureID(err)
	if !ok {
		return false
	}
	feat := comp.FeatureByID(id)
	return feat != nil && feat.Flow != nil && feat.Flow.Force
}

func errFeatureID(err error) (string, bool) {
	switch e := err.(type) {
	case *composition.InvalidInputError:
		return e.FeatureID, true
	case *composition.PlacementExhaustedError:
		return e.FeatureID, true
	case *composition.UnknownTargetError:
		return e.FeatureID, true
	case *composition.UnreachableError:
		return e.FeatureID, true
	case *composition.TemplateNotFoundError:
		return e.FeatureID, true
	default:
		return "", false
	}
}

func isTemplateNotFound(err error) bool {
	_, ok := err.(*composition.TemplateNotFoundError)
	return ok
}
