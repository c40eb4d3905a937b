package analysis

import (
	"strings"

	"github.com/san-kum/orbsim/internal/orbit"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds data for a 2D phase space plot.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// RadialPortrait pairs distance with radial velocity ṙ = r·v/|r|. A Kepler
// orbit traces a closed loop between periapsis and apoapsis.
func RadialPortrait(positions, velocities []orbit.Vec3) *PhasePortrait {
	n := min(len(positions), len(velocities))
	portrait := &PhasePortrait{
		XLabel: "r (km)",
		YLabel: "dr/dt (km/s)",
		Points: make([]Point, 0, n),
	}
	for i := 0; i < n; i++ {
		r := positions[i].Norm()
		if r == 0 {
			continue
		}
		portrait.Points = append(portrait.Points, Point{
			X: r,
			Y: positions[i].Dot(velocities[i]) / r,
		})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// ṙ = 0 marks the apsides.
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossing is a passage through the reference plane.
type Crossing struct {
	Time     float64
	Position orbit.Vec3
}

// NodeCrossings records ascending-node passages, where z goes from negative
// to non-negative, interpolating linearly between samples.
func NodeCrossings(times []float64, positions []orbit.Vec3) []Crossing {
	n := min(len(times), len(positions))
	out := make([]Crossing, 0)
	for i := 1; i < n; i++ {
		prev, curr := positions[i-1], positions[i]
		if !(prev[2] < 0 && curr[2] >= 0) {
			continue
		}
		frac := -prev[2] / (curr[2] - prev[2])
		var p orbit.Vec3
		for j := range p {
			p[j] = prev[j] + frac*(curr[j]-prev[j])
		}
		out = append(out, Crossing{
			Time:     times[i-1] + frac*(times[i]-times[i-1]),
			Position: p,
		})
	}
	return out
}
