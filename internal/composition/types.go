// Package composition defines the declarative input document — the Composition and
// its tagged Feature variants (Area, Point, Flow, Structure) — consumed by the
// pipeline stages, plus the lifecycle status every feature carries as it moves
// through the pipeline.
package composition

import "github.com/mhus/nimbus-world-sub007/internal/hexmath"

// Status is a Feature's position in its NEW -> PREPARED -> COMPOSED -> CREATED
// lifecycle. A stage that cannot place/route/design a feature sets FAILED instead
// and records a message; unrelated features continue through the pipeline.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusPrepared Status = "PREPARED"
	StatusComposed Status = "COMPOSED"
	StatusCreated  Status = "CREATED"
	StatusFailed   Status = "FAILED"
)

// Kind tags which variant payload a Feature carries.
type Kind string

const (
	KindArea      Kind = "AREA"
	KindPoint     Kind = "POINT"
	KindFlow      Kind = "FLOW"
	KindStructure Kind = "STRUCTURE"
)

// Header is the shared header every Feature variant carries, per the spec's
// "tagged sum with shared header" design note.
type Header struct {
	Name           string
	FeatureID      string
	Kind           Kind
	Status         Status
	FailureMessage string
	Parameters     map[string]string
}

// Feature is a tagged-sum feature: exactly one of Area, Point, Flow, Structure is
// non-nil, matching Header.Kind. A dispatcher matches on Kind rather than using
// virtual dispatch (see design notes: "Polymorphic self-configures-grids calls").
type Feature struct {
	Header    Header
	Area      *AreaFeature
	Point     *PointFeature
	Flow      *FlowFeature
	Structure *StructureFeature
}

func (f *Feature) ID() string   { return f.Header.FeatureID }
func (f *Feature) Name() string { return f.Header.Name }

// EnsureParameters returns the feature's parameter map, allocating it on first use.
func (f *Feature) EnsureParameters() map[string]string {
	if f.Header.Parameters == nil {
		f.Header.Parameters = make(map[string]string)
	}
	return f.Header.Parameters
}

// AreaType enumerates the ten Area subtypes.
type AreaType string

const (
	AreaPlains    AreaType = "PLAINS"
	AreaForest    AreaType = "FOREST"
	AreaMountains AreaType = "MOUNTAINS"
	AreaDesert    AreaType = "DESERT"
	AreaSwamp     AreaType = "SWAMP"
	AreaOcean     AreaType = "OCEAN"
	AreaCoast     AreaType = "COAST"
	AreaIsland    AreaType = "ISLAND"
	AreaVillage   AreaType = "VILLAGE"
	AreaTown      AreaType = "TOWN"
)

// Shape is the region-growth strategy BiomeComposer uses for an Area.
type Shape string

const (
	ShapeCircle Shape = "CIRCLE"
	ShapeLine   Shape = "LINE"
)

// MountainHeight sub-enums a MOUNTAINS area's peak profile.
type MountainHeight string

const (
	HeightHighPeaks   MountainHeight = "HIGH_PEAKS"
	HeightMediumPeaks MountainHeight = "MEDIUM_PEAKS"
	HeightLowPeaks    MountainHeight = "LOW_PEAKS"
	HeightMeadow      MountainHeight = "MEADOW"
)

// DeviationTendency is shorthand that sets DeviationLeft/DeviationRight to the same
// value for a LINE-shaped Area.
type DeviationTendency string

const (
	DeviationNone     DeviationTendency = "NONE"
	DeviationSlight   DeviationTendency = "SLIGHT"
	DeviationModerate DeviationTendency = "MODERATE"
	DeviationStrong   DeviationTendency = "STRONG"
)

// TendencyValue returns the probability a DeviationTendency shorthand expands to.
func TendencyValue(t DeviationTendency) float64 {
	switch t {
	case DeviationSlight:
		return 0.2
	case DeviationModerate:
		return 0.4
	case DeviationStrong:
		return 0.6
	default:
		return 0.0
	}
}

// AreaFeature places a region (biome or continent) by shape and size range.
type AreaFeature struct {
	Type     AreaType
	Shape    Shape
	SizeFrom int
	SizeTo   int

	// CalculatedSizeFrom/To are set by the Preparer; identity unless a continent/size
	// scaling rule applies.
	CalculatedSizeFrom int
	CalculatedSizeTo   int

	Positions []Position

	ContinentID string
	Height      MountainHeight

	DeviationLeft     float64
	DeviationRight    float64
	DeviationTendency DeviationTendency
	// DirectionDeviation is the legacy single-value form; the Preparer expands it to
	// DeviationLeft = DeviationRight = D/2 when DeviationTendency is unset and
	// DeviationLeft/Right are both zero.
	DirectionDeviation float64
}

// SnapMode constrains a Point's placement to interior cells (INSIDE) or boundary
// cells (EDGE) of its target biome.
type SnapMode string

const (
	SnapInside SnapMode = "INSIDE"
	SnapEdge   SnapMode = "EDGE"
)

// PointFeature is a zero-size point of interest snapped into a target biome.
type PointFeature struct {
	Mode       SnapMode
	Target     string
	Avoid      []string
	PreferNear []string

	// Placement result, set by PointComposer.
	Placed         bool
	PlacedCoordinate hexmath.Hex
	PlacedLx       int
	PlacedLz       int
	PlacedInBiome  string
}

// FlowVariant tags which linear feature a Flow represents.
type FlowVariant string

const (
	FlowRoad     FlowVariant = "ROAD"
	FlowRiver    FlowVariant = "RIVER"
	FlowWall     FlowVariant = "WALL"
	FlowSideWall FlowVariant = "SIDEWALL"
)

// FlowFeature is a linear feature routed across cells between two endpoints (or, for
// SideWall, around the edge of a single biome).
type FlowFeature struct {
	Variant     FlowVariant
	WidthBlocks int
	Level       int

	StartPointID string
	EndPointID   string
	MergeToID    string
	WaypointIDs  []string

	TendLeft  float64
	TendRight float64
	Force     bool

	// Road-specific.
	RoadType string

	// River-specific.
	RiverDepth int

	// Wall-specific.
	WallMaterial string
	WallHeight   int

	// SideWall-specific.
	SideWallTargetBiomeID string
	SideWallSides         []hexmath.Side
	SideWallDistance      int
	SideWallMinimum       int
}

// IsClosedLoop reports whether this Flow is a Wall whose start and end point refer to
// the same Point feature, meaning it routes as a ring rather than a point-to-point path.
func (f *FlowFeature) IsClosedLoop() bool {
	return f.Variant == FlowWall && f.StartPointID != "" && f.StartPointID == f.EndPointID
}

// Building is one plot within a designed Structure.
type Building struct {
	LX, LZ int
	Width  int
	Height int
	Kind   string
}

// Street is a plaza-internal or inter-cell boundary road segment within a designed
// Structure.
type Street struct {
	Cell  hexmath.Hex
	Route []StreetHop
}

// StreetHop is one edge a structure's internal street crosses.
type StreetHop struct {
	Side  hexmath.Side
	Width int
	Type  string
}

// StructureFeature designs a village/town from a named template.
type StructureFeature struct {
	Template      string
	AnchorPointID string // Point feature whose placed cell anchors the template footprint
	Size          int
	Style         string
	BaseLevel     int

	// Design result, set by StructureDesigner.
	Buildings []Building
	Streets   []Street
	// CellParameters holds the per-cell village/road descriptors the designer emitted,
	// keyed by hex, merged on top of biome parameters by the Assembler.
	CellParameters map[hexmath.Hex]map[string]string
}

// Position is a declarative {direction, distance range, anchor} placement hint.
type Position struct {
	Direction      hexmath.CompassDirection
	DirectionAngle float64
	DistanceFrom   int
	DistanceTo     int
	Anchor         string
	Priority       int

	// Resolved by the Preparer.
	ResolvedAnchorHex hexmath.Hex
	ResolvedSide      hexmath.Side
}

// Continent groups Areas that must remain connected after gap filling.
type Continent struct {
	ID         string
	Name       string
	Parameters map[string]string
}

// Composition is the top-level input document.
type Composition struct {
	WorldID    string
	Name       string
	Seed       int64
	HasSeed    bool
	Features   []*Feature
	Continents []*Continent
}

// FeatureByID returns the feature with the given id, or nil.
func (c *Composition) FeatureByID(id string) *Feature {
	for _, f := range c.Features {
		if f.Header.FeatureID == id {
			return f
		}
	}
	return nil
}

// FeatureByName returns the feature with the given name, or nil. Names are used by
// anchors and snap targets, which reference features by name rather than id.
func (c *Composition) FeatureByName(name string) *Feature {
	for _, f := range c.Features {
		if f.Header.Name == name {
			return f
		}
	}
	return nil
}

// ContinentByID returns the continent declaration with the given id, or nil.
func (c *Composition) ContinentByID(id string) *Continent {
	for _, ct := range c.Continents {
		if ct.ID == id {
			return ct
		}
	}
	return nil
}
