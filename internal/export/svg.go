// Package export renders moment profiles to SVG for reports.
package export

import (
	"fmt"
	"strings"
)

// ProfileSVG draws one conserved-moment profile as a polyline over the
// site index.
func ProfileSVG(profile []float64, width, height int, strokeColor string) string {
	if len(profile) < 2 {
		return ""
	}

	minY, maxY := profile[0], profile[0]
	for _, v := range profile {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range profile {
		x := float64(i) / float64(len(profile)-1) * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SnapshotSVG stacks every conserved moment of a snapshot into one SVG,
// cycling through a small palette.
func SnapshotSVG(snapshot [][]float64, width, height int) string {
	palette := []string{"#00ff00", "#00bfff", "#ff6fbf", "#ffd700"}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height*len(snapshot), width, height*len(snapshot)))

	for i, profile := range snapshot {
		inner := ProfileSVG(profile, width, height, palette[i%len(palette)])
		// strip the standalone document wrapper, keep the path
		start := strings.Index(inner, "<path")
		end := strings.Index(inner, "</svg>")
		if start < 0 || end < 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<g transform="translate(0,%d)">`, i*height))
		sb.WriteString(inner[start:end])
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
