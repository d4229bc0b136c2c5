package composition

import "github.com/mhus/nimbus-world-sub007/internal/hexmath"

// PlacedBiome is the result of BiomeComposer placing one Area feature: a center hex
// and the connected set of hexes it occupies.
type PlacedBiome struct {
	FeatureID   string
	AreaType    AreaType
	ContinentID string
	Center      hexmath.Hex
	Coordinates map[hexmath.Hex]struct{}
	ActualSize  int
}

// OrderedCoordinates returns the placed biome's hexes in a stable (q, r) lexicographic
// order, so downstream consumers (tests, JSON emission) get reproducible output.
func (p *PlacedBiome) OrderedCoordinates() []hexmath.Hex {
	out := make([]hexmath.Hex, 0, len(p.Coordinates))
	for h := range p.Coordinates {
		out = append(out, h)
	}
	sortHexes(out)
	return out
}

func sortHexes(hs []hexmath.Hex) {
	for i := 1; i < len(hs); i++ {
		for j := i; j > 0 && hexLess(hs[j], hs[j-1]); j-- {
			hs[j], hs[j-1] = hs[j-1], hs[j]
		}
	}
}

func hexLess(a, b hexmath.Hex) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}

// FlowSegment is one crossing of a linear feature (road/river/wall) through a single
// cell. Exactly one of (FromSide) or (FromLx/FromLz set) applies to each end; the
// start of a route has no FromSide.
type FlowSegment struct {
	FlowFeatureID string
	FlowType      FlowVariant

	HasFromSide bool
	FromSide    hexmath.Side
	HasFromLocal bool
	FromLx      int
	FromLz      int

	HasToSide bool
	ToSide    hexmath.Side
	HasToLocal bool
	ToLx      int
	ToLz      int

	Width int
	Level int

	HasDepth bool
	Depth    int

	HasRoadType bool
	RoadType    string
}

// FeatureHexGrid accumulates, per cell, the parameters and flow segments a single
// feature contributes. BiomeComposer, PointComposer, FlowComposer, and
// StructureDesigner each populate one of these per feature; the Assembler later
// merges all of them onto the final per-cell parameter map.
type FeatureHexGrid struct {
	FeatureID string
	Cells     map[hexmath.Hex]*CellContribution
}

// CellContribution is one feature's contribution to one cell: parameters it wants set
// and flow segments it routes through that cell.
type CellContribution struct {
	Parameters map[string]string
	Segments   []FlowSegment
}

// NewFeatureHexGrid creates an empty grid for a feature.
func NewFeatureHexGrid(featureID string) *FeatureHexGrid {
	return &FeatureHexGrid{FeatureID: featureID, Cells: make(map[hexmath.Hex]*CellContribution)}
}

// Cell returns (allocating if needed) the contribution record for a hex.
func (g *FeatureHexGrid) Cell(h hexmath.Hex) *CellContribution {
	c, ok := g.Cells[h]
	if !ok {
		c = &CellContribution{Parameters: make(map[string]string)}
		g.Cells[h] = c
	}
	return c
}

// FillerKind tags a gap-filled cell's role.
type FillerKind string

const (
	FillerOcean     FillerKind = "OCEAN"
	FillerLand      FillerKind = "LAND"
	FillerCoast     FillerKind = "COAST"
	FillerContinent FillerKind = "CONTINENT"
	FillerMountain  FillerKind = "MOUNTAIN"
)

// CellOrigin tags whether a FilledHexGrid cell came from a placed biome or a filler
// stage, per the "FilledHexGrid: cell wrapper tagged Biome or Filler" data model.
type CellOrigin struct {
	IsBiome     bool
	BiomeID     string // set when IsBiome
	FillerKind  FillerKind // set when !IsBiome
}

// FilledHexGrid is the complete tiled field produced by GapFiller: every cell has an
// authoritative parameter map plus an origin tag.
type FilledHexGrid struct {
	Cells map[hexmath.Hex]*FilledCell
}

// FilledCell is one cell of the filled grid.
type FilledCell struct {
	Coord      hexmath.Hex
	Origin     CellOrigin
	Parameters map[string]string
}

// NewFilledHexGrid creates an empty filled grid.
func NewFilledHexGrid() *FilledHexGrid {
	return &FilledHexGrid{Cells: make(map[hexmath.Hex]*FilledCell)}
}

// Get returns the cell at h, or nil if unclaimed.
func (g *FilledHexGrid) Get(h hexmath.Hex) *FilledCell {
	return g.Cells[h]
}

// Claim returns (allocating if needed) the cell at h with the given origin. It does
// not overwrite an existing cell's origin.
func (g *FilledHexGrid) Claim(h hexmath.Hex, origin CellOrigin) *FilledCell {
	c, ok := g.Cells[h]
	if !ok {
		c = &FilledCell{Coord: h, Origin: origin, Parameters: make(map[string]string)}
		g.Cells[h] = c
	}
	return c
}

// CellPlan is the external, persistence-facing record for one cell, per the
// persistence boundary (§6.4): a flat {worldId, position, parameters, enabled}
// record the engine hands to an external collaborator for idempotent upsert.
type CellPlan struct {
	WorldID    string
	Position   string // "q:r"
	Parameters map[string]string
	Enabled    bool
}
