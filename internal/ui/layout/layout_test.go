package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestSizeThresholds(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) || IsTooSmall(80, 24) {
		t.Error("IsTooSmall thresholds wrong")
	}
	if !IsCompactWidth(99) || IsCompactWidth(100) {
		t.Error("IsCompactWidth threshold wrong")
	}
	if !IsCompactHeight(29) || IsCompactHeight(30) {
		t.Error("IsCompactHeight threshold wrong")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Battle", "★ 2 won", 100)
	for _, want := range []string{"MathQuest", "Battle", "★ 2 won"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if got := lipgloss.Height(h); got != 3 {
		t.Errorf("header height = %d, want 3", got)
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("Home", "", 90)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 90)

	if got := ContentHeight(header, footer, 30); got != 24 {
		t.Errorf("content height = %d, want 24", got)
	}
	if got := ContentHeight(header, footer, 4); got != 0 {
		t.Errorf("content height = %d, want 0", got)
	}

	frame := RenderFrame(header, "body", footer, 90, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
	if !strings.Contains(frame, "Esc") || !strings.Contains(frame, "body") {
		t.Error("frame missing footer or content")
	}
}
