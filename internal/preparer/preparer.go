// Package preparer normalizes a Composition for downstream stages: it applies
// type-based parameter defaults, resolves declarative positions against the feature
// index, and validates references and size ranges before any placement work begins.
package preparer

import (
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// Prepare validates comp and resolves defaults/positions in place. It returns every
// InvalidInputError found; the caller (Orchestrator) treats a non-empty result as
// fatal. Prepare is idempotent: running it twice over an already-prepared
// composition produces the same state, since default application never overwrites
// and anchor/angle resolution is a pure recomputation.
func Prepare(comp *composition.Composition) []error {
	if comp == nil {
		return []error{&composition.InvalidInputError{Reason: "composition is nil"}}
	}
	if comp.WorldID == "" {
		return []error{&composition.InvalidInputError{Reason: "worldId is required"}}
	}

	var errs []error
	for _, f := range comp.Features {
		if err := prepareFeature(comp, f); err != nil {
			f.Header.Status = composition.StatusFailed
			f.Header.FailureMessage = err.Error()
			errs = append(errs, err)
			continue
		}
		if f.Header.Status == composition.StatusNew {
			f.Header.Status = composition.StatusPrepared
		}
	}
	return errs
}

func prepareFeature(comp *composition.Composition, f *composition.Feature) error {
	switch f.Header.Kind {
	case composition.KindArea:
		return prepareArea(comp, f)
	case composition.KindPoint:
		return preparePoint(comp, f)
	case composition.KindFlow:
		return prepareFlow(comp, f)
	case composition.KindStructure:
		return prepareStructure(comp, f)
	default:
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "unknown feature kind"}
	}
}

func prepareArea(comp *composition.Composition, f *composition.Feature) error {
	a := f.Area
	if a == nil {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "area payload is nil"}
	}
	if a.SizeFrom < 0 || a.SizeTo < 0 || a.SizeFrom > a.SizeTo {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "sizeFrom must be >= 0 and <= sizeTo",
		}
	}

	expandDeviation(a)

	if err := resolvePositions(comp, f.ID(), a.Positions); err != nil {
		return err
	}

	// Identity unless a continent/size scaling rule applies; no such rule is defined
	// for this engine (see DESIGN.md open-question decision), so calculated bounds
	// always mirror the declared bounds.
	a.CalculatedSizeFrom = a.SizeFrom
	a.CalculatedSizeTo = a.SizeTo

	ApplyAreaDefaults(f)

	if a.ContinentID != "" && comp.ContinentByID(a.ContinentID) == nil {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "continentId references unknown continent " + a.ContinentID,
		}
	}
	return nil
}

// expandDeviation applies the tendency/legacy-field expansion rules: explicit
// DeviationLeft/Right win; otherwise DeviationTendency sets both to the same value;
// otherwise the legacy DirectionDeviation D expands to D/2, D/2.
func expandDeviation(a *composition.AreaFeature) {
	if a.DeviationLeft != 0 || a.DeviationRight != 0 {
		return
	}
	if a.DeviationTendency != "" {
		v := composition.TendencyValue(a.DeviationTendency)
		a.DeviationLeft = v
		a.DeviationRight = v
		return
	}
	if a.DirectionDeviation != 0 {
		a.DeviationLeft = a.DirectionDeviation / 2
		a.DeviationRight = a.DirectionDeviation / 2
	}
}

func preparePoint(comp *composition.Composition, f *composition.Feature) error {
	p := f.Point
	if p == nil {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "point payload is nil"}
	}
	if comp.FeatureByName(p.Target) == nil {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "target references unknown feature " + p.Target,
		}
	}
	for _, name := range p.Avoid {
		if comp.FeatureByName(name) == nil {
			return &composition.InvalidInputError{
				FeatureID: f.ID(),
				Reason:    "avoid references unknown feature " + name,
			}
		}
	}
	for _, name := range p.PreferNear {
		if comp.FeatureByName(name) == nil {
			return &composition.InvalidInputError{
				FeatureID: f.ID(),
				Reason:    "preferNear references unknown feature " + name,
			}
		}
	}
	return nil
}

func prepareFlow(comp *composition.Composition, f *composition.Feature) error {
	fl := f.Flow
	if fl == nil {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "flow payload is nil"}
	}

	if fl.Variant == composition.FlowSideWall {
		if fl.SideWallTargetBiomeID == "" || comp.FeatureByID(fl.SideWallTargetBiomeID) == nil {
			return &composition.InvalidInputError{
				FeatureID: f.ID(),
				Reason:    "targetBiomeId references unknown feature " + fl.SideWallTargetBiomeID,
			}
		}
		return nil
	}

	if fl.StartPointID == "" {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "startPointId is required"}
	}
	if comp.FeatureByID(fl.StartPointID) == nil && comp.FeatureByName(fl.StartPointID) == nil {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "startPointId references unknown feature " + fl.StartPointID,
		}
	}

	endRef := fl.EndPointID
	if endRef == "" {
		endRef = fl.MergeToID
	}
	if endRef == "" {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "endPointId or mergeToId is required"}
	}
	if comp.FeatureByID(endRef) == nil && comp.FeatureByName(endRef) == nil {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "endPointId/mergeToId references unknown feature " + endRef,
		}
	}

	for _, wp := range fl.WaypointIDs {
		if comp.FeatureByID(wp) == nil && comp.FeatureByName(wp) == nil {
			return &composition.InvalidInputError{
				FeatureID: f.ID(),
				Reason:    "waypoint references unknown feature " + wp,
			}
		}
	}
	return nil
}

func prepareStructure(comp *composition.Composition, f *composition.Feature) error {
	if f.Structure == nil {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "structure payload is nil"}
	}
	if f.Structure.Template == "" {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "template is required"}
	}
	if f.Structure.AnchorPointID == "" {
		return &composition.InvalidInputError{FeatureID: f.ID(), Reason: "anchorPointId is required"}
	}
	if comp.FeatureByID(f.Structure.AnchorPointID) == nil && comp.FeatureByName(f.Structure.AnchorPointID) == nil {
		return &composition.InvalidInputError{
			FeatureID: f.ID(),
			Reason:    "anchorPointId references unknown feature " + f.Structure.AnchorPointID,
		}
	}
	return nil
}

// resolvePositions resolves each Position's anchor to a concrete hex and its
// direction/angle to a concrete axial Side, in place.
func resolvePositions(comp *composition.Composition, featureID string, positions []composition.Position) error {
	for i := range positions {
		pos := &positions[i]

		anchorHex, err := resolveAnchor(comp, featureID, pos.Anchor)
		if err != nil {
			return err
		}
		pos.ResolvedAnchorHex = anchorHex

		if pos.DirectionAngle != 0 {
			pos.ResolvedSide = hexmath.AngleToSide(pos.DirectionAngle)
		} else {
			pos.ResolvedSide = hexmath.DirectionToSide(pos.Direction)
		}

		if pos.DistanceFrom < 0 || pos.DistanceTo < 0 || pos.DistanceFrom > pos.DistanceTo {
			return &composition.InvalidInputError{
				FeatureID: featureID,
				Reason:    "distanceFrom must be >= 0 and <= distanceTo",
			}
		}
	}
	return nil
}

func resolveAnchor(comp *composition.Composition, featureID, anchor string) (hexmath.Hex, error) {
	if anchor == "" || anchor == "origin" {
		return hexmath.Origin, nil
	}
	if target := comp.FeatureByName(anchor); target != nil {
		return anchorHexOf(target), nil
	}
	return hexmath.Hex{}, &composition.InvalidInputError{
		FeatureID: featureID,
		Reason:    "anchor references unknown feature " + anchor,
	}
}

// anchorHexOf returns the best-known hex for a feature to anchor relative
// positioning on: a placed Point's cell, or the origin for anything else. An Area
// anchor resolves to the origin here and in BiomeComposer alike (see
// biome.resolveAnchorHex); neither resolves it to a PlacedBiome center.
func anchorHexOf(target *composition.Feature) hexmath.Hex {
	if target.Point != nil && target.Point.Placed {
		return target.Point.PlacedCoordinate
	}
	return hexmath.Origin
}

// ApplyAreaDefaults is re-exported for callers that only need default application
// (e.g. tests) without the rest of Prepare's validation.
func ApplyAreaDefaults(f *composition.Feature) int {
	return composition.ApplyAreaDefaults(f)
}
