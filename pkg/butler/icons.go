package butler

import (
	"runtime"
	"strings"
)

// Icon placeholders embedded in rendered message lines.
const (
	IconBot  = ":bot:"
	IconUser = ":user:"
)

// IconRenderer turns icon placeholders into something the terminal can show.
// It runs after every message render.
type IconRenderer interface {
	Materialize(s string) string
}

// TextIcons replaces placeholders with emoji, or with plain labels where
// emoji widths are unreliable.
type TextIcons struct {
	ASCII bool
}

// NewIconRenderer picks emoji except on darwin.
func NewIconRenderer() TextIcons {
	return TextIcons{ASCII: runtime.GOOS == "darwin"}
}

func (i TextIcons) Materialize(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}
	bot, user := "🌿", "👤"
	if i.ASCII {
		bot, user = "[管家]", "[我]"
	}
	return strings.NewReplacer(IconBot, bot, IconUser, user).Replace(s)
}
