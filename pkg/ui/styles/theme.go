// Package styles provides the shared theme for the airbutler UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette. Forest greens with a warm accent, ANSI 256 where possible.
var (
	// Primary accent color (forest green)
	ColorAccent = lipgloss.Color("71")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("42")
	ColorInfo    = lipgloss.Color("238")

	ColorPrice       = lipgloss.Color("173") // Warm clay for prices
	ColorPlaceholder = lipgloss.Color("240")

	// Border colors
	ColorBorder      = lipgloss.Color("71")
	ColorBorderMuted = lipgloss.Color("65")
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for overlays and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// BoxStyleCompact has less padding
	BoxStyleCompact = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Selection and highlighting
var (
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)

	// ChipStyle renders an unselected quick reply.
	ChipStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Underline(true)

	// ChipSelectedStyle renders the focused quick reply.
	ChipSelectedStyle = SelectedStyle
)

// Page styles
var (
	NavStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	// NavShadowStyle is applied while the page is scrolled.
	NavShadowStyle = NavStyle.
			Underline(true).
			Foreground(ColorTextBright)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// SectionHiddenStyle dims sections that have not been revealed yet.
	SectionHiddenStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder)

	PriceStyle = lipgloss.NewStyle().
			Foreground(ColorPrice).
			Bold(true)

	OriginalPriceStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Strikethrough(true)
)

// Butler widget styles
var (
	FABStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Padding(0, 1).
			Bold(true)

	ButlerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	UserMessageStyle = lipgloss.NewStyle().
				Foreground(ColorTextBright)

	BotMessageStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TypingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Toast styles
var (
	toastBase = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Padding(0, 2)

	ToastInfoStyle    = toastBase.Background(ColorInfo)
	ToastSuccessStyle = toastBase.Background(ColorSuccess)
	ToastErrorStyle   = toastBase.Background(ColorError)

	// ToastFadingStyle replaces the background while a toast fades out.
	ToastFadingStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Padding(0, 2)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#2E6B3F")).
		Bold(true)
)
