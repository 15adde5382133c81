package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianshen/ratiocalc/internal/multiplier"
)

func TestStatusBarRender(t *testing.T) {
	sb := NewStatusBar(80)
	sb.SetCounts(31, 2)
	sb.SetUnit(multiplier.PerMillion)
	sb.SetMessage("saved row 3")
	result := sb.View()
	assert.Contains(t, result, "31 rows")
	assert.Contains(t, result, "2 editing")
	assert.Contains(t, result, "per 1M tokens")
	assert.Contains(t, result, "saved row 3")
}

func TestStatusBarError(t *testing.T) {
	sb := NewStatusBar(80)
	sb.SetError(errors.New("disk full"))
	assert.Contains(t, sb.View(), "Error: disk full")

	sb.SetMessage("ok")
	assert.NotContains(t, sb.View(), "Error")
}

func TestStatusBarDefaults(t *testing.T) {
	sb := NewStatusBar(80)
	result := sb.View()
	assert.Contains(t, result, "0 rows")
	assert.Contains(t, result, "per 1K tokens")
}
