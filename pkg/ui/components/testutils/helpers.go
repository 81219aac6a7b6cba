// Package testutils builds Bubble Tea input messages for UI tests.
package testutils

import (
	tea "charm.land/bubbletea/v2"
)

// NewKeyPressMsg creates a KeyPressMsg for a special key code.
func NewKeyPressMsg(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// NewTextKeyPressMsg creates a KeyPressMsg that types text. Only the first
// rune becomes the key code.
func NewTextKeyPressMsg(text string) tea.KeyPressMsg {
	if text == "" {
		return tea.KeyPressMsg(tea.Key{})
	}
	return tea.KeyPressMsg(tea.Key{
		Code: []rune(text)[0],
		Text: text,
	})
}

// NewCtrlKeyPressMsg creates Ctrl+char, e.g. Ctrl+B for the butler toggle.
func NewCtrlKeyPressMsg(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: char,
		Mod:  tea.ModCtrl,
	})
}

// NewWheelMsg creates a mouse wheel event at cell (x, y).
func NewWheelMsg(x, y int, button tea.MouseButton) tea.MouseWheelMsg {
	return tea.MouseWheelMsg(tea.Mouse{X: x, Y: y, Button: button})
}

// Keys the butler panel, page and result overlay react to.
var (
	TestKeyUp     = NewKeyPressMsg(tea.KeyUp)
	TestKeyDown   = NewKeyPressMsg(tea.KeyDown)
	TestKeyLeft   = NewKeyPressMsg(tea.KeyLeft)
	TestKeyRight  = NewKeyPressMsg(tea.KeyRight)
	TestKeyEnter  = NewKeyPressMsg(tea.KeyEnter)
	TestKeyTab    = NewKeyPressMsg(tea.KeyTab)
	TestKeyEsc    = NewKeyPressMsg(tea.KeyEscape)
	TestKeySpace  = NewKeyPressMsg(tea.KeySpace)
	TestKeyHome   = NewKeyPressMsg(tea.KeyHome)
	TestKeyEnd    = NewKeyPressMsg(tea.KeyEnd)
	TestKeyPgUp   = NewKeyPressMsg(tea.KeyPgUp)
	TestKeyPgDown = NewKeyPressMsg(tea.KeyPgDown)

	TestKeyCtrlB = NewCtrlKeyPressMsg('b')
	TestKeyCtrlC = NewCtrlKeyPressMsg('c')
	TestKeyCtrlY = NewCtrlKeyPressMsg('y')
)
