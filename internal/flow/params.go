package flow

import (
	"encoding/json"

	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// flowHop is one side (or local anchor) a flow crosses within a single cell, per
// §6.2's {side, width, type}/{side, width, depth} shapes.
type flowHop struct {
	Side  string `json:"side,omitempty"`
	Lx    int    `json:"lx,omitempty"`
	Lz    int    `json:"lz,omitempty"`
	Width int    `json:"width"`
	Type  string `json:"type,omitempty"`  // road only
	Depth int    `json:"depth,omitempty"` // river only
}

func hopFrom(seg composition.FlowSegment, roadType string, depth int) *flowHop {
	if !seg.HasFromSide && !seg.HasFromLocal {
		return nil
	}
	hop := &flowHop{Width: seg.Width, Type: roadType, Depth: depth}
	if seg.HasFromLocal {
		hop.Lx, hop.Lz = seg.FromLx, seg.FromLz
	} else {
		hop.Side = seg.FromSide.String()
	}
	return hop
}

func hopTo(seg composition.FlowSegment, roadType string, depth int) *flowHop {
	if !seg.HasToSide && !seg.HasToLocal {
		return nil
	}
	hop := &flowHop{Width: seg.Width, Type: roadType, Depth: depth}
	if seg.HasToLocal {
		hop.Lx, hop.Lz = seg.ToLx, seg.ToLz
	} else {
		hop.Side = seg.ToSide.String()
	}
	return hop
}

// roadDescriptor is the "road" parameter per §6.2: a single level plus every side this
// cell's road segments cross, merged into one ordered route.
type roadDescriptor struct {
	Level int       `json:"level"`
	Route []flowHop `json:"route"`
}

// riverDescriptor is the "river" parameter per §6.2, keeping the upstream ("from") and
// downstream ("to") crossings in separate ordered lists so direction survives.
type riverDescriptor struct {
	GroupID string    `json:"groupId"`
	From    []flowHop `json:"from"`
	To      []flowHop `json:"to"`
}

// wallDescriptor mirrors roadDescriptor's shape for open and closed-loop Wall flows.
// §6.2's key table only names road/river/g_sidewall/g_village explicitly, but §4.6.2's
// segment emission applies to Wall the same as Road/River — we supplement the table
// with a "wall" key of the same merged-route shape rather than silently dropping the
// Wall variant's own per-cell output (see DESIGN.md).
type wallDescriptor struct {
	Level int       `json:"level"`
	Route []flowHop `json:"route"`
}

type sideWallDescriptor struct {
	Height   int      `json:"height"`
	Level    int      `json:"level"`
	Width    int      `json:"width"`
	Distance int      `json:"distance"`
	Minimum  int      `json:"minimum"`
	Sides    []string `json:"sides"`
}

// applyFlowParams converts every cell's emitted FlowSegment list into the JSON-encoded
// per-cell parameter the Assembler later carries through untouched.
func applyFlowParams(grid *composition.FeatureHexGrid, f *composition.Feature) {
	fl := f.Flow
	for h, contrib := range grid.Cells {
		switch fl.Variant {
		case composition.FlowRoad:
			var route []flowHop
			for _, seg := range contrib.Segments {
				if hop := hopFrom(seg, fl.RoadType, 0); hop != nil {
					route = append(route, *hop)
				}
				if hop := hopTo(seg, fl.RoadType, 0); hop != nil {
					route = append(route, *hop)
				}
			}
			encoded, _ := json.Marshal(roadDescriptor{Level: fl.Level, Route: route})
			grid.Cell(h).Parameters["road"] = string(encoded)

		case composition.FlowRiver:
			var from, to []flowHop
			for _, seg := range contrib.Segments {
				if hop := hopFrom(seg, "", fl.RiverDepth); hop != nil {
					from = append(from, *hop)
				}
				if hop := hopTo(seg, "", fl.RiverDepth); hop != nil {
					to = append(to, *hop)
				}
			}
			encoded, _ := json.Marshal(riverDescriptor{GroupID: f.ID(), From: from, To: to})
			grid.Cell(h).Parameters["river"] = string(encoded)

		default: // Wall, open or closed-loop
			var route []flowHop
			for _, seg := range contrib.Segments {
				if hop := hopFrom(seg, fl.WallMaterial, 0); hop != nil {
					route = append(route, *hop)
				}
				if hop := hopTo(seg, fl.WallMaterial, 0); hop != nil {
					route = append(route, *hop)
				}
			}
			encoded, _ := json.Marshal(wallDescriptor{Level: fl.Level, Route: route})
			grid.Cell(h).Parameters["wall"] = string(encoded)
		}
	}
}

// applySideWallParams sets the "g_sidewall" descriptor on every wall cell produced by
// composeSideWall. Every cell gets the same descriptor; its sides list is the
// declared SideWallSides (empty when none are declared), not the cell's own
// outward side.
func applySideWallParams(grid *composition.FeatureHexGrid, f *composition.Feature, cells map[hexmath.Hex]hexmath.Side) {
	fl := f.Flow
	sideNames := make([]string, 0, len(fl.SideWallSides))
	for _, s := range fl.SideWallSides {
		sideNames = append(sideNames, s.String())
	}
	for h := range cells {
		encoded, _ := json.Marshal(sideWallDescriptor{
			Height: fl.WallHeight, Level: fl.Level, Width: fl.WidthBlocks,
			Distance: fl.SideWallDistance, Minimum: fl.SideWallMinimum, Sides: sideNames,
		})
		grid.Cell(h).Parameters["g_sidewall"] = string(encoded)
	}
}
