// Package hexviz renders the cells of a FilledHexGrid to SVG (flow segments are not
// drawn) for manual inspection while debugging a composition. It is a test-only tool:
// nothing outside _test.go files imports it.
package hexviz

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/mhus/nimbus-world-sub007/internal/composition"
	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

// Options configures a render.
type Options struct {
	GridSize int // hex edge-to-edge spacing in pixels; default 24
	Margin   int // canvas margin in pixels; default 40
}

func (o Options) withDefaults() Options {
	if o.GridSize <= 0 {
		o.GridSize = 24
	}
	if o.Margin <= 0 {
		o.Margin = 40
	}
	return o
}

var fillerColor = map[composition.FillerKind]string{
	composition.FillerOcean:     "#1e3a5f",
	composition.FillerLand:      "#6b8e4e",
	composition.FillerCoast:     "#d9c389",
	composition.FillerContinent: "#6b8e4e",
	composition.FillerMountain:  "#8a8a8a",
}

var biomeColor = map[composition.AreaType]string{
	composition.AreaPlains:    "#a3c96a",
	composition.AreaForest:    "#2f6b3a",
	composition.AreaMountains: "#8a8a8a",
	composition.AreaDesert:    "#d9c389",
	composition.AreaSwamp:     "#556b2f",
	composition.AreaOcean:     "#1e3a5f",
	composition.AreaCoast:     "#d9c389",
	composition.AreaIsland:    "#c2a85f",
	composition.AreaVillage:   "#b5651d",
	composition.AreaTown:      "#a0522d",
}

// Render draws grid's cells as pointy-top hexagon polygons, colored by origin, and
// returns the SVG document as bytes.
func Render(grid *composition.FilledHexGrid, opts Options) []byte {
	opts = opts.withDefaults()
	cells := orderedCells(grid)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	width, height, project := layout(cells, opts)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#0b0e14")

	for _, cell := range cells {
		x, z := project(cell.Coord)
		xs, zs := hexagonPoints(x, z, float64(opts.GridSize)*0.95)
		canvas.Polygon(xs, zs, fmt.Sprintf("fill:%s;stroke:#111;stroke-width:1", cellColor(cell)))
		canvas.Text(int(x), int(z)+4, cell.Coord.String(), "text-anchor:middle;font-size:8px;fill:#fff")
	}

	canvas.End()
	return buf.Bytes()
}

func orderedCells(grid *composition.FilledHexGrid) []*composition.FilledCell {
	cells := make([]*composition.FilledCell, 0, len(grid.Cells))
	for _, c := range grid.Cells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Coord.Q != cells[j].Coord.Q {
			return cells[i].Coord.Q < cells[j].Coord.Q
		}
		return cells[i].Coord.R < cells[j].Coord.R
	})
	return cells
}

func cellColor(cell *composition.FilledCell) string {
	if cell.Origin.IsBiome {
		if t, ok := cell.Parameters["biome"]; ok {
			if c, ok := biomeColor[composition.AreaType(t)]; ok {
				return c
			}
		}
		return "#a3c96a"
	}
	if c, ok := fillerColor[cell.Origin.FillerKind]; ok {
		return c
	}
	return "#444444"
}

func layout(cells []*composition.FilledCell, opts Options) (width, height int, project func(hexmath.Hex) (float64, float64)) {
	minX, minZ := 0.0, 0.0
	maxX, maxZ := 0.0, 0.0
	for i, cell := range cells {
		pt := cell.Coord.ToCartesian(float64(opts.GridSize))
		if i == 0 || pt.X < minX {
			minX = pt.X
		}
		if i == 0 || pt.X > maxX {
			maxX = pt.X
		}
		if i == 0 || pt.Z < minZ {
			minZ = pt.Z
		}
		if i == 0 || pt.Z > maxZ {
			maxZ = pt.Z
		}
	}

	margin := float64(opts.Margin)
	width = int(maxX-minX+2*margin) + 1
	height = int(maxZ-minZ+2*margin) + 1
	project = func(h hexmath.Hex) (float64, float64) {
		pt := h.ToCartesian(float64(opts.GridSize))
		return pt.X - minX + margin, pt.Z - minZ + margin
	}
	return width, height, project
}

// hexagonPoints returns the six vertices of a pointy-top hexagon centered at (cx, cz)
// with the given edge-to-edge radius, matching the ToCartesian projection convention.
func hexagonPoints(cx, cz, radius float64) ([]int, []int) {
	xs := make([]int, 6)
	zs := make([]int, 6)
	for i := 0; i < 6; i++ {
		angle := (60.0*float64(i) - 30.0) * (math.Pi / 180.0)
		xs[i] = int(cx + radius*math.Cos(angle))
		zs[i] = int(cz + radius*math.Sin(angle))
	}
	return xs, zs
}
