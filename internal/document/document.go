// Package document loads a Composition from its external textual form (YAML or
// JSON, field names stable across either per the top-level document description)
// and converts it into the runtime composition.Composition graph the pipeline
// stages consume.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
	"gopkg.in/yaml.v3"
)

func decodeJSON(data []byte, d *doc) error {
	return json.Unmarshal(data, d)
}

// doc mirrors the top-level document keys described in §6.1: worldId, name,
// features (ordered, tagged by type), continents (optional, ordered).
type doc struct {
	WorldID    string         `yaml:"worldId" json:"worldId"`
	Name       string         `yaml:"name" json:"name"`
	Seed       *int64         `yaml:"seed" json:"seed"`
	Features   []featureDoc   `yaml:"features" json:"features"`
	Continents []continentDoc `yaml:"continents" json:"continents"`
}

type continentDoc struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Parameters map[string]string `yaml:"parameters" json:"parameters"`
}

// featureDoc carries every variant's fields flattened into one object; Type picks
// which variant converter runs, following the tagged-sum shape named in §3.
type featureDoc struct {
	Type      string `yaml:"type" json:"type"`
	Name      string `yaml:"name" json:"name"`
	FeatureID string `yaml:"featureId" json:"featureId"`

	// Area
	AreaType          string            `yaml:"areaType" json:"areaType"`
	Shape             string            `yaml:"shape" json:"shape"`
	SizeFrom          int               `yaml:"sizeFrom" json:"sizeFrom"`
	SizeTo            int               `yaml:"sizeTo" json:"sizeTo"`
	Positions         []positionDoc     `yaml:"positions" json:"positions"`
	ContinentID       string            `yaml:"continentId" json:"continentId"`
	Height            string            `yaml:"height" json:"height"`
	DeviationLeft      float64          `yaml:"deviationLeft" json:"deviationLeft"`
	DeviationRight     float64          `yaml:"deviationRight" json:"deviationRight"`
	DeviationTendency  string           `yaml:"deviationTendency" json:"deviationTendency"`
	DirectionDeviation float64          `yaml:"directionDeviation" json:"directionDeviation"`
	Parameters         map[string]string `yaml:"parameters" json:"parameters"`

	// Point
	Mode       string   `yaml:"mode" json:"mode"`
	Target     string   `yaml:"target" json:"target"`
	Avoid      []string `yaml:"avoid" json:"avoid"`
	PreferNear []string `yaml:"preferNear" json:"preferNear"`

	// Flow (common)
	Variant      string   `yaml:"variant" json:"variant"`
	WidthBlocks  int      `yaml:"widthBlocks" json:"widthBlocks"`
	Level        int      `yaml:"level" json:"level"`
	StartPointID string   `yaml:"startPointId" json:"startPointId"`
	EndPointID   string   `yaml:"endPointId" json:"endPointId"`
	MergeToID    string   `yaml:"mergeToId" json:"mergeToId"`
	WaypointIDs  []string `yaml:"waypointIds" json:"waypointIds"`
	TendLeft     float64  `yaml:"tendLeft" json:"tendLeft"`
	TendRight    float64  `yaml:"tendRight" json:"tendRight"`
	Force        bool     `yaml:"force" json:"force"`

	// Flow (variant-specific)
	RoadType              string   `yaml:"roadType" json:"roadType"`
	RiverDepth             int      `yaml:"depth" json:"depth"`
	WallMaterial           string   `yaml:"material" json:"material"`
	WallHeight             int      `yaml:"wallHeight" json:"wallHeight"`
	SideWallTargetBiomeID string   `yaml:"targetBiomeId" json:"targetBiomeId"`
	SideWallSides          []string `yaml:"sides" json:"sides"`
	SideWallDistance       int      `yaml:"distance" json:"distance"`
	SideWallMinimum        int      `yaml:"minimum" json:"minimum"`

	// Structure
	Template      string `yaml:"template" json:"template"`
	AnchorPointID string `yaml:"anchorPointId" json:"anchorPointId"`
	Size          int    `yaml:"size" json:"size"`
	Style         string `yaml:"style" json:"style"`
	BaseLevel     int    `yaml:"baseLevel" json:"baseLevel"`
}

type positionDoc struct {
	Direction      string  `yaml:"direction" json:"direction"`
	DirectionAngle float64 `yaml:"directionAngle" json:"directionAngle"`
	DistanceFrom   int     `yaml:"distanceFrom" json:"distanceFrom"`
	DistanceTo     int     `yaml:"distanceTo" json:"distanceTo"`
	Anchor         string  `yaml:"anchor" json:"anchor"`
	Priority       int     `yaml:"priority" json:"priority"`
}

// Load reads a composition document from path, picking a YAML or JSON decoder by
// extension (.json decodes as JSON; anything else, including .yaml/.yml, decodes
// as YAML, since YAML is a superset of JSON and the field names are shared).
func Load(path string) (*composition.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var d doc
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := decodeJSON(data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s as JSON: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing %s as YAML: %w", path, err)
		}
	}

	return d.toComposition()
}

func (d *doc) toComposition() (*composition.Composition, error) {
	worldID := d.WorldID
	if worldID == "" {
		worldID = uuid.NewString()
	}
	comp := &composition.Composition{
		WorldID: worldID,
		Name:    d.Name,
	}
	if d.Seed != nil {
		comp.Seed = *d.Seed
		comp.HasSeed = true
	}

	for _, cd := range d.Continents {
		comp.Continents = append(comp.Continents, &composition.Continent{
			ID: cd.ID, Name: cd.Name, Parameters: cd.Parameters,
		})
	}

	for i, fd := range d.Features {
		f, err := fd.toFeature()
		if err != nil {
			return nil, fmt.Errorf("feature[%d] %q: %w", i, fd.FeatureID, err)
		}
		comp.Features = append(comp.Features, f)
	}

	return comp, nil
}

func (fd *featureDoc) toFeature() (*composition.Feature, error) {
	featureID := fd.FeatureID
	if featureID == "" {
		featureID = uuid.NewString()
	}
	f := &composition.Feature{
		Header: composition.Header{
			Name:       fd.Name,
			FeatureID:  featureID,
			Status:     composition.StatusNew,
			Parameters: fd.Parameters,
		},
	}

	switch strings.ToUpper(fd.Type) {
	case "AREA":
		f.Header.Kind = composition.KindArea
		area, err := fd.toArea()
		if err != nil {
			return nil, err
		}
		f.Area = area
	case "POINT":
		f.Header.Kind = composition.KindPoint
		f.Point = &composition.PointFeature{
			Mode:       composition.SnapMode(strings.ToUpper(fd.Mode)),
			Target:     fd.Target,
			Avoid:      fd.Avoid,
			PreferNear: fd.PreferNear,
		}
	case "FLOW":
		f.Header.Kind = composition.KindFlow
		flow, err := fd.toFlow()
		if err != nil {
			return nil, err
		}
		f.Flow = flow
	case "STRUCTURE":
		f.Header.Kind = composition.KindStructure
		f.Structure = &composition.StructureFeature{
			Template:      fd.Template,
			AnchorPointID: fd.AnchorPointID,
			Size:          fd.Size,
			Style:         fd.Style,
			BaseLevel:     fd.BaseLevel,
		}
	default:
		return nil, fmt.Errorf("unknown feature type %q", fd.Type)
	}

	return f, nil
}

func (fd *featureDoc) toArea() (*composition.AreaFeature, error) {
	positions := make([]composition.Position, len(fd.Positions))
	for i, pd := range fd.Positions {
		positions[i] = composition.Position{
			Direction:      hexmath.CompassDirection(strings.ToUpper(pd.Direction)),
			DirectionAngle: pd.DirectionAngle,
			DistanceFrom:   pd.DistanceFrom,
			DistanceTo:     pd.DistanceTo,
			Anchor:         pd.Anchor,
			Priority:       pd.Priority,
		}
	}

	return &composition.AreaFeature{
		Type:               composition.AreaType(strings.ToUpper(fd.AreaType)),
		Shape:               composition.Shape(strings.ToUpper(fd.Shape)),
		SizeFrom:            fd.SizeFrom,
		SizeTo:              fd.SizeTo,
		Positions:           positions,
		ContinentID:         fd.ContinentID,
		Height:              composition.MountainHeight(strings.ToUpper(fd.Height)),
		DeviationLeft:       fd.DeviationLeft,
		DeviationRight:      fd.DeviationRight,
		DeviationTendency:   composition.DeviationTendency(strings.ToUpper(fd.DeviationTendency)),
		DirectionDeviation:  fd.DirectionDeviation,
	}, nil
}

func (fd *featureDoc) toFlow() (*composition.FlowFeature, error) {
	sides := make([]hexmath.Side, 0, len(fd.SideWallSides))
	for _, s := range fd.SideWallSides {
		side, ok := hexmath.ParseSide(strings.ToUpper(s))
		if !ok {
			return nil, fmt.Errorf("unknown side %q", s)
		}
		sides = append(sides, side)
	}

	return &composition.FlowFeature{
		Variant:      composition.FlowVariant(strings.ToUpper(fd.Variant)),
		WidthBlocks:  fd.WidthBlocks,
		Level:        fd.Level,
		StartPointID: fd.StartPointID,
		EndPointID:   fd.EndPointID,
		MergeToID:    fd.MergeToID,
		WaypointIDs:  fd.WaypointIDs,
		TendLeft:     fd.TendLeft,
		TendRight:    fd.TendRight,
		Force:        fd.Force,

		RoadType: fd.RoadType,

		RiverDepth: fd.RiverDepth,

		WallMaterial: fd.WallMaterial,
		WallHeight:   fd.WallHeight,

		SideWallTargetBiomeID: fd.SideWallTargetBiomeID,
		SideWallSides:         sides,
		SideWallDistance:      fd.SideWallDistance,
		SideWallMinimum:       fd.SideWallMinimum,
	}, nil
}
