// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// FilterInput wraps a bubbles textinput used to narrow the history list.
type FilterInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewFilterInput creates a new, unfocused filter input.
func NewFilterInput(s *styles.Styles) *FilterInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "type:url or text..."
	ti.CharLimit = 256
	ti.Width = 50

	return &FilterInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Update handles input messages.
func (f *FilterInput) Update(msg tea.Msg) (*FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the filter input.
func (f *FilterInput) View() string {
	label := f.styles.Title.Render("Filter: ")
	field := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (f *FilterInput) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *FilterInput) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *FilterInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *FilterInput) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *FilterInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *FilterInput) SetWidth(width int) {
	f.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Reset clears the input.
func (f *FilterInput) Reset() {
	f.textinput.Reset()
}

// Apply returns the records matching the current filter, preserving order.
// A "type:" prefix matches the content type; any other text matches the
// display value or raw payload case-insensitively.
func (f *FilterInput) Apply(records []domain.ScanRecord) []domain.ScanRecord {
	return Filter(records, f.Value())
}

// Filter returns the records of records matching query.
func Filter(records []domain.ScanRecord, query string) []domain.ScanRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	var typeFilter domain.ContentType
	text := query
	if rest, ok := strings.CutPrefix(strings.ToLower(query), "type:"); ok {
		typeFilter = typeFromQuery(rest)
		text = ""
	}
	text = strings.ToLower(text)

	out := make([]domain.ScanRecord, 0, len(records))
	for _, r := range records {
		if typeFilter != "" && r.ContentType != typeFilter {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(r.DisplayValue), text) &&
			!strings.Contains(strings.ToLower(r.RawPayload), text) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// typeFromQuery accepts both the wire name and the short label.
func typeFromQuery(q string) domain.ContentType {
	q = strings.TrimSpace(q)
	for _, t := range domain.AllContentTypes() {
		if strings.EqualFold(q, string(t)) || strings.EqualFold(q, styles.TypeLabel(t)) {
			return t
		}
	}
	// Unknown types match nothing.
	return domain.ContentType(strings.ToUpper(q))
}
