// Package export writes rendered scenes to files outside the terminal.
package export

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/viz"
)

// SceneToSVG draws every layer of the scene as a vector path, using the
// scene's camera and theme, on a size x size image with a legend.
func SceneToSVG(scene *viz.Scene, size int) string {
	if scene == nil || size <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	for i, l := range scene.Layers {
		if len(l.Points) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, scene.Theme.Color(i))
		for j, p := range l.Points {
			x, y, _ := scene.Camera.Project(p, size, size)
			if j == 0 {
				fmt.Fprintf(&sb, "M%d,%d", x, y)
			} else {
				fmt.Fprintf(&sb, " L%d,%d", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	if scene.Origin {
		x, y, _ := scene.Camera.Project(orbit.Vec3{}, size, size)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="4" fill="%s"/>`+"\n", x, y, scene.Theme.Accent)
	}

	for i, l := range scene.Layers {
		fmt.Fprintf(&sb, `<text x="12" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n",
			20+16*i, scene.Theme.Color(i), html.EscapeString(l.Name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG renders the scene to w.
func WriteSVG(w io.Writer, scene *viz.Scene, size int) error {
	_, err := io.WriteString(w, SceneToSVG(scene, size))
	return err
}

func WriteSVGFile(path string, scene *viz.Scene, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, scene, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
