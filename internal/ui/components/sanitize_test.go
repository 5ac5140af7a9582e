package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.Equal(t, "click line more", out)
}

func TestSanitizeTextRemovesBidiControlsAndCSI(t *testing.T) {
	out := SanitizeText("safe\u202eexe.txt \x1b[31mred\x1b[0m\nnext")

	assert.Equal(t, "safeexe.txt red\nnext", out)
}

func TestSanitizeTextEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeText(""))
}
