package structure

import (
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// Result is the outcome of designing every Structure feature in a Composition.
type Result struct {
	HexGrids map[string]*composition.FeatureHexGrid
	Errors   []error
}

// ComposeAll designs every Structure feature in comp against provider, anchored at
// each feature's already-placed AnchorPointID.
func ComposeAll(comp *composition.Composition, provider TemplateProvider) *Result {
	res := &Result{HexGrids: make(map[string]*composition.FeatureHexGrid)}
	for _, f := range comp.Features {
		if f.Header.Kind != composition.KindStructure {
			continue
		}
		grid, err := composeStructure(comp, f, provider)
		if err != nil {
			f.Header.Status = composition.StatusFailed
			f.Header.FailureMessage = err.Error()
			res.Errors = append(res.Errors, err)
			continue
		}
		f.Header.Status = composition.StatusComposed
		res.HexGrids[f.ID()] = grid
	}
	return res
}

func composeStructure(comp *composition.Composition, f *composition.Feature, provider TemplateProvider) (*composition.FeatureHexGrid, error) {
	s := f.Structure
	anchor, ok := resolveAnchorPoint(comp, s.AnchorPointID)
	if !ok {
		return nil, &composition.UnknownTargetError{FeatureID: f.ID(), Target: s.AnchorPointID}
	}

	design, err := Design(provider, f.ID(), s.Template, anchor, s.BaseLevel)
	if err != nil {
		return nil, err
	}

	grid := composition.NewFeatureHexGrid(f.ID())
	s.CellParameters = make(map[hexmath.Hex]map[string]string)
	for _, cell := range design.Layout {
		cfg := design.GridConfigs[cell]
		cellParams := make(map[string]string)
		cellParams["g_village"] = cfg.ToVillageParameter()
		if road := cfg.ToRoadParameter(); road != "" {
			cellParams["road"] = road
		}
		s.CellParameters[cell] = cellParams

		s.Buildings = append(s.Buildings, gridBuildings(cfg)...)
		if len(cfg.Streets) > 0 {
			s.Streets = append(s.Streets, composition.Street{Cell: cell, Route: cfg.Streets})
		}

		contrib := grid.Cell(cell)
		for k, v := range cellParams {
			contrib.Parameters[k] = v
		}
	}
	return grid, nil
}

func gridBuildings(cfg *GridConfig) []composition.Building {
	buildings := make([]composition.Building, len(cfg.Plots))
	for i, p := range cfg.Plots {
		buildings[i] = composition.Building{LX: p.Lx, LZ: p.Lz, Width: p.W, Height: p.H, Kind: p.Kind}
	}
	return buildings
}

// resolveAnchorPoint looks anchorID up as a Point feature and returns its placed cell.
func resolveAnchorPoint(comp *composition.Composition, anchorID string) (hexmath.Hex, bool) {
	feat := comp.FeatureByID(anchorID)
	if feat == nil {
		feat = comp.FeatureByName(anchorID)
	}
	if feat == nil || feat.Header.Kind != composition.KindPoint {
		return hexmath.Hex{}, false
	}
	if feat.Point == nil || !feat.Point.Placed {
		return hexmath.Hex{}, false
	}
	return feat.Point.PlacedCoordinate, true
}
