package structure

import "encoding/json"

type plotJSON struct {
	Lx   int    `json:"lx"`
	Lz   int    `json:"lz"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Kind string `json:"kind"`
}

// villageDescriptor is the "g_village" parameter per §6.2: a cell's building plots
// plus its level.
type villageDescriptor struct {
	Plots []plotJSON `json:"plots"`
	Level int        `json:"level"`
}

type streetHopJSON struct {
	Side  string `json:"side"`
	Width int    `json:"width"`
	Type  string `json:"type"`
}

// roadDescriptor mirrors FlowComposer's "road" shape, so plaza-internal and
// inter-cell structure streets round-trip the same way flow-routed roads do.
type roadDescriptor struct {
	Level int             `json:"level"`
	Route []streetHopJSON `json:"route"`
}

// ToVillageParameter encodes g's plots into the "g_village" JSON descriptor.
func (g *GridConfig) ToVillageParameter() string {
	plots := make([]plotJSON, len(g.Plots))
	for i, p := range g.Plots {
		plots[i] = plotJSON{Lx: p.Lx, Lz: p.Lz, W: p.W, H: p.H, Kind: p.Kind}
	}
	encoded, _ := json.Marshal(villageDescriptor{Plots: plots, Level: g.Level})
	return string(encoded)
}

// ToRoadParameter encodes g's streets into the "road" JSON descriptor. Returns "" when
// the cell carries no street, so callers can skip setting the key entirely.
func (g *GridConfig) ToRoadParameter() string {
	if len(g.Streets) == 0 {
		return ""
	}
	route := make([]streetHopJSON, len(g.Streets))
	for i, s := range g.Streets {
		route[i] = streetHopJSON{Side: s.Side.String(), Width: s.Width, Type: s.Type}
	}
	encoded, _ := json.Marshal(roadDescriptor{Level: g.Level, Route: route})
	return string(encoded)
}
