package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// MascotVariant is the hero's pose on the title screen. It reflects the
// result of the most recent battle.
type MascotVariant int

const (
	MascotReady MascotVariant = iota
	MascotVictorious
	MascotWounded
)

type mascotArt struct {
	art string
	fg  color.Color
}

var mascots = map[MascotVariant]mascotArt{
	MascotReady: {
		art: `  ▲
 (•‿•)  ╱
 ╱[+]╲ ╱
  ╱ ╲`,
		fg: theme.ArcadeCyan,
	},
	MascotVictorious: {
		art: ` ★ ▲ ★
 \(^‿^)/
   [×]
  ╱   ╲`,
		fg: theme.ArcadeYellow,
	},
	MascotWounded: {
		art: `  ▲
 (x_x)
 ╱[-]╲  ✚
  ╱ ╲`,
		fg: theme.Error,
	},
}

func mascotFor(last battle.Result) MascotVariant {
	switch last {
	case battle.ResultVictory:
		return MascotVictorious
	case battle.ResultDefeat:
		return MascotWounded
	default:
		return MascotReady
	}
}

// RenderMascot returns the coloured art for v. Unknown variants fall back
// to the ready pose.
func RenderMascot(v MascotVariant) string {
	m, ok := mascots[v]
	if !ok {
		m = mascots[MascotReady]
	}
	return lipgloss.NewStyle().Foreground(m.fg).Render(m.art)
}
