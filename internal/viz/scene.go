package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Layer is one body's track in a scene.
type Layer struct {
	Name   string
	Points []orbit.Vec3
}

// Scene draws several tracks into one braille canvas with a legend.
type Scene struct {
	Width, Height int
	Camera        *Camera
	Theme         Theme
	Layers        []Layer
	// Origin marks the reference body at the centre.
	Origin bool
}

func NewScene(width, height int, theme Theme) *Scene {
	return &Scene{
		Width:  width,
		Height: height,
		Camera: NewCamera(1),
		Theme:  theme,
		Origin: true,
	}
}

func (s *Scene) Add(name string, points []orbit.Vec3) {
	s.Layers = append(s.Layers, Layer{Name: name, Points: points})
}

// Fit sizes the camera so every layer is visible.
func (s *Scene) Fit() {
	tracks := make([][]orbit.Vec3, len(s.Layers))
	for i, l := range s.Layers {
		tracks[i] = l.Points
	}
	s.Camera.Extent = FitExtent(tracks...)
}

// Draw rasterizes the layers. Consecutive samples are joined by lines and
// the newest sample of each layer is drawn as a small cross.
func (s *Scene) Draw() *Canvas {
	c := NewCanvas(s.Width, s.Height)
	sw, sh := c.SubWidth(), c.SubHeight()

	for i, l := range s.Layers {
		c.SetLayer(i)
		var px, py int
		have := false
		for _, p := range l.Points {
			x, y, _ := s.Camera.Project(p, sw, sh)
			if have {
				c.DrawLine(px, py, x, y)
			} else {
				c.Set(x, y)
			}
			px, py, have = x, y, true
		}
		if have {
			c.Set(px-1, py)
			c.Set(px+1, py)
			c.Set(px, py-1)
			c.Set(px, py+1)
		}
	}

	if s.Origin {
		c.SetLayer(len(s.Layers))
		x, y, _ := s.Camera.Project(orbit.Vec3{}, sw, sh)
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	}
	return c
}

// palette returns one color per layer plus the origin marker.
func (s *Scene) palette() []lipgloss.Color {
	p := make([]lipgloss.Color, len(s.Layers)+1)
	for i := range s.Layers {
		p[i] = s.Theme.Color(i)
	}
	p[len(s.Layers)] = s.Theme.Accent
	return p
}

// Render draws the scene with colors and a legend beside it.
func (s *Scene) Render() string {
	names := make([]string, len(s.Layers))
	for i, l := range s.Layers {
		names[i] = l.Name
	}
	art := s.Draw().Render(s.palette())
	return lipgloss.JoinHorizontal(lipgloss.Top, art, "  ", Legend(names, s.Theme))
}
