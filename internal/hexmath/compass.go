package hexmath

import "math"

// CompassDirection is one of the eight compass names a Position may declare.
type CompassDirection string

const (
	DirN  CompassDirection = "N"
	DirNE CompassDirection = "NE"
	DirE  CompassDirection = "E"
	DirSE CompassDirection = "SE"
	DirS  CompassDirection = "S"
	DirSW CompassDirection = "SW"
	DirW  CompassDirection = "W"
	DirNW CompassDirection = "NW"
)

// compassAngle is the canonical bearing (0-359, 0=N, clockwise) for each compass name.
var compassAngle = map[CompassDirection]float64{
	DirN: 0, DirNE: 45, DirE: 90, DirSE: 135,
	DirS: 180, DirSW: 225, DirW: 270, DirNW: 315,
}

// sideAngle is the bearing of each of the six axial Sides in the same 0-359 frame,
// matching the pointy-top layout where NE points up-and-right.
var sideAngle = [6]float64{
	NE: 30, E: 90, SE: 150, SW: 210, W: 270, NW: 330,
}

// AngleToSide resolves a bearing in degrees (0-359) to the nearest of the six axial
// Sides. Hex lattices only have six neighbor directions, so every compass bearing
// collapses onto one of them; the exact angle is kept by the caller for tie-breaking
// between candidate positions that resolve to the same side.
func AngleToSide(angleDegrees float64) Side {
	best := NE
	bestDelta := math.MaxFloat64
	for s := NE; s <= NW; s++ {
		d := angularDistance(angleDegrees, sideAngle[s])
		if d < bestDelta {
			bestDelta = d
			best = s
		}
	}
	return best
}

// DirectionToSide resolves a named compass direction to the nearest axial Side.
func DirectionToSide(dir CompassDirection) Side {
	angle, ok := compassAngle[dir]
	if !ok {
		angle = 0
	}
	return AngleToSide(angle)
}

func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Step returns the Hex reached by walking distance steps from origin along side s.
func Step(origin Hex, s Side, distance int) Hex {
	return origin.Add(directionVectors[s].Scale(distance))
}
