package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

// q types into the query, so only ctrl+c quits.
func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

// keymap holds the navigation keys. Vim mode adds ctrl-chords, since bare
// letters always go to the query.
type keymap struct {
	vim bool
}

func (k keymap) up(msg tea.KeyMsg) bool {
	return isKey(msg, "up") || (k.vim && isKey(msg, "ctrl+k"))
}

func (k keymap) down(msg tea.KeyMsg) bool {
	return isKey(msg, "down") || (k.vim && isKey(msg, "ctrl+j"))
}

func (k keymap) expand(msg tea.KeyMsg) bool {
	return isKey(msg, "right") || (k.vim && isKey(msg, "ctrl+l"))
}

func (k keymap) collapse(msg tea.KeyMsg) bool {
	return isKey(msg, "left")
}

func isOpenLink(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+o")
}

func isEdit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+e")
}

func isAdd(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+n")
}

func isDelete(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+d")
}

func isSave(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

// fieldDigit maps 1-9 to a zero-based field position.
func fieldDigit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}
