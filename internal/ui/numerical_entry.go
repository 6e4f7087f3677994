package ui

import (
	"unicode/utf8"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts typed digits, up to MaxLength of them.
// Pasted text bypasses the filter; attach a Validator for that case.
type NumericalEntry struct {
	widget.Entry

	// MaxLength caps the number of typed digits. Zero means unlimited.
	MaxLength int
}

// NewNumericalEntry creates a NumericalEntry accepting at most maxLength digits.
func NewNumericalEntry(maxLength int) *NumericalEntry {
	entry := &NumericalEntry{MaxLength: maxLength}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops non-digits and digits beyond MaxLength.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if e.MaxLength > 0 && utf8.RuneCountInString(e.Text) >= e.MaxLength && e.SelectedText() == "" {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
