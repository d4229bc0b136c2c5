package structure

import "github.com/mhus/nimbus-world-sub007/internal/hexmath"

// relStreet is a template's street declaration, relative to the template's anchor
// cell: which footprint cell it crosses, which side, and its width/type.
type relStreet struct {
	Cell  hexmath.Hex
	Side  hexmath.Side
	Width int
	Type  string
}

// Template is a named village/town layout: a fixed hex footprint around an anchor
// cell (always including the origin), which footprint cell holds the plaza, and the
// plaza-internal/inter-cell street graph, all relative to the anchor.
type Template struct {
	Name      string
	Footprint []hexmath.Hex
	PlazaCell hexmath.Hex
	Streets   []relStreet
}

// TemplateProvider resolves a named template. The core never looks templates up from
// a process-wide registry; callers own template storage and pass a provider in.
type TemplateProvider interface {
	Template(name string) (Template, bool)
}

// mapProvider is the simplest TemplateProvider: a fixed map of built-in templates.
type mapProvider map[string]Template

func (p mapProvider) Template(name string) (Template, bool) {
	t, ok := p[name]
	return t, ok
}

// BuiltinTemplates returns a TemplateProvider serving the three reference layouts:
// a single-cell hamlet, a two-cell village, and a five-cell cross-shaped town. These
// exist so the engine is runnable without external template storage wired up; callers
// with real template content supply their own TemplateProvider instead.
func BuiltinTemplates() TemplateProvider {
	origin := hexmath.Origin
	return mapProvider{
		"hamlet": {
			Name:      "hamlet",
			Footprint: []hexmath.Hex{origin},
			PlazaCell: origin,
		},
		"village": {
			Name:      "village",
			Footprint: []hexmath.Hex{origin, origin.Neighbor(hexmath.E)},
			PlazaCell: origin,
			Streets: []relStreet{
				{Cell: origin, Side: hexmath.E, Width: 2, Type: "cobble"},
				{Cell: origin.Neighbor(hexmath.E), Side: hexmath.W, Width: 2, Type: "cobble"},
			},
		},
		"town": {
			Name: "town",
			Footprint: []hexmath.Hex{
				origin,
				origin.Neighbor(hexmath.E),
				origin.Neighbor(hexmath.W),
				origin.Neighbor(hexmath.NE),
				origin.Neighbor(hexmath.SW),
			},
			PlazaCell: origin,
			Streets: []relStreet{
				{Cell: origin, Side: hexmath.E, Width: 2, Type: "cobble"},
				{Cell: origin, Side: hexmath.W, Width: 2, Type: "cobble"},
				{Cell: origin, Side: hexmath.NE, Width: 2, Type: "cobble"},
				{Cell: origin, Side: hexmath.SW, Width: 2, Type: "cobble"},
				{Cell: origin.Neighbor(hexmath.E), Side: hexmath.W, Width: 2, Type: "cobble"},
				{Cell: origin.Neighbor(hexmath.W), Side: hexmath.E, Width: 2, Type: "cobble"},
				{Cell: origin.Neighbor(hexmath.NE), Side: hexmath.SW, Width: 2, Type: "cobble"},
				{Cell: origin.Neighbor(hexmath.SW), Side: hexmath.NE, Width: 2, Type: "cobble"},
			},
		},
	}
}
