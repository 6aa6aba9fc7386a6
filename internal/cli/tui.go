package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// Form styles
var (
	formSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	formNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	formDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	formActiveTag     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	formFieldStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1).Width(60)
	formFocusedField  = formFieldStyle.BorderForeground(colorCyan)
)

const tagColumns = 3

// =============================================================================
// VibeFormModel - Interactive vibe and tag entry
// =============================================================================

// VibeFormModel is the bubbletea model for entering a vibe description and
// toggling style tags. Focus 0 is the text field; focus i > 0 is tag i-1.
type VibeFormModel struct {
	Vibe      []rune
	Tags      moodboard.TagSet
	Catalog   []string
	Focus     int
	Submitted bool
}

// NewVibeFormModel creates an empty form over the tag catalog.
func NewVibeFormModel() VibeFormModel {
	return VibeFormModel{
		Tags:    moodboard.NewTagSet(),
		Catalog: moodboard.VibeTags,
	}
}

// Request returns the generation request the form currently describes.
func (m VibeFormModel) Request() generate.Request {
	return generate.Request{
		VibeText: strings.TrimSpace(string(m.Vibe)),
		Tags:     m.Tags.Sorted(),
	}
}

func (m VibeFormModel) Init() tea.Cmd {
	return nil
}

func (m VibeFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.Request().Ready() {
			m.Submitted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.move(m.stepDown(key.Type))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.move(-m.stepDown(key.Type))
		return m, nil
	}

	if m.Focus == 0 {
		switch key.Type {
		case tea.KeyRunes, tea.KeySpace:
			m.Vibe = append(m.Vibe, key.Runes...)
		case tea.KeyBackspace:
			if len(m.Vibe) > 0 {
				m.Vibe = m.Vibe[:len(m.Vibe)-1]
			}
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeySpace:
		m.toggle()
	case tea.KeyLeft:
		m.move(-1)
	case tea.KeyRight:
		m.move(1)
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "x":
			m.toggle()
		case "h":
			m.move(-1)
		case "l":
			m.move(1)
		}
	}
	return m, nil
}

// stepDown is how far up/down and tab move focus: rows in the tag grid,
// single items for tab.
func (m VibeFormModel) stepDown(t tea.KeyType) int {
	if t == tea.KeyTab || t == tea.KeyShiftTab || m.Focus == 0 {
		return 1
	}
	return tagColumns
}

func (m *VibeFormModel) move(delta int) {
	n := len(m.Catalog) + 1
	f := m.Focus + delta
	switch {
	case f < 0:
		f = 0
	case f >= n:
		f = n - 1
	}
	m.Focus = f
}

func (m *VibeFormModel) toggle() {
	if m.Focus > 0 && m.Focus <= len(m.Catalog) {
		m.Tags.Toggle(m.Catalog[m.Focus-1])
	}
}

func (m VibeFormModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Describe your vibe"))
	b.WriteString("\n")
	b.WriteString(formDimStyle.Render("tab/↑/↓ move  space toggle tag  ⏎ generate  esc quit"))
	b.WriteString("\n\n")

	field := formFieldStyle
	text := string(m.Vibe)
	if m.Focus == 0 {
		field = formFocusedField
		text += "▏"
	}
	if len(m.Vibe) == 0 && m.Focus != 0 {
		text = formDimStyle.Render("e.g. sunlit loft with linen and oak")
	}
	b.WriteString(field.Render(text))
	b.WriteString("\n\n")

	for i, tag := range m.Catalog {
		mark := "[ ]"
		style := formNormalStyle
		if m.Tags.Has(tag) {
			mark = "[x]"
			style = formActiveTag
		}
		if m.Focus == i+1 {
			style = formSelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %-14s", mark, tag)))
		if (i+1)%tagColumns == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}
	if len(m.Catalog)%tagColumns != 0 {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Request().Ready() {
		b.WriteString(StyleSuccess.Render("⏎ Generate moodboard"))
	} else {
		b.WriteString(formDimStyle.Render("Add a description or pick a tag to generate"))
	}
	b.WriteString("\n")

	return b.String()
}
