// Package platform wraps the operating-system services the launcher calls:
// the clipboard and the external browser.
package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct {
	write       func(string) error
	unsupported bool
}

// NewSystemClipboard returns a clipboard backed by the OS.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// WriteText copies text to the OS clipboard.
func (c *SystemClipboard) WriteText(text string) error {
	if c.unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
