package export

import (
	"strings"
	"testing"
)

func TestProfileSVG(t *testing.T) {
	svg := ProfileSVG([]float64{0, 1, 0, -1}, 200, 100, "#00ff00")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
	if !strings.Contains(svg, "M0.0,") {
		t.Error("path should start at x=0")
	}
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 line segments, got %d", strings.Count(svg, " L"))
	}
}

func TestProfileSVGDegenerate(t *testing.T) {
	if svg := ProfileSVG([]float64{1}, 100, 100, "#fff"); svg != "" {
		t.Error("expected empty SVG for single point")
	}
	// constant profile must not divide by zero
	svg := ProfileSVG([]float64{2, 2, 2}, 100, 100, "#fff")
	if svg == "" || strings.Contains(svg, "NaN") {
		t.Error("constant profile should render cleanly")
	}
}

func TestSnapshotSVG(t *testing.T) {
	snapshot := [][]float64{
		{0, 1, 0},
		{1, 0, 1},
	}
	svg := SnapshotSVG(snapshot, 200, 100)

	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, `translate(0,100)`) {
		t.Error("second moment should be offset vertically")
	}
}
