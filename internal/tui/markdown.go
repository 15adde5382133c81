package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// helpMarkdown is shown by the help overlay.
const helpMarkdown = `# Multiplier Calculator

Prices are entered per **1K** or **1M** tokens. For each model:

- **Model multiplier** = input price / reference price (0.002 per 1K, 2 per 1M)
- **Completion multiplier** = output price / input price

A zero input price leaves both multipliers at 0.

## Keys

| Key | Action |
| --- | --- |
| ↑ / ↓ | move between rows |
| a | add a row |
| e, enter | edit the row, or save it while editing |
| tab / shift+tab | next / previous field while editing |
| esc | cancel the edit (a new row is discarded) |
| d | delete the row |
| u | switch between per-1K and per-1M prices |
| R | reset to the default model list |
| ? | toggle this help |
| q, ctrl+c | quit |
`

// MarkdownRenderer wraps Glamour for rendering markdown to styled terminal output.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a MarkdownRenderer with dark style
// and the given word wrap width. Dark style is used instead of auto-detect
// because the TUI runs inside Bubble Tea which manages the terminal directly.
func NewMarkdownRenderer(width int) (*MarkdownRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &MarkdownRenderer{renderer: r}, nil
}

// Render processes markdown text into styled terminal output. A nil
// renderer returns the source unchanged.
func (m *MarkdownRenderer) Render(md string) (string, error) {
	if md == "" {
		return "", nil
	}
	if m == nil || m.renderer == nil {
		return md, nil
	}
	return m.renderer.Render(md)
}
