// Package detail provides the single record view for the TUI.
package detail

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// View shows every field of a scan record.
type View struct {
	styles *styles.Styles

	record *domain.ScanRecord
	width  int
	height int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s}
}

// SetRecord sets the record to display.
func (v *View) SetRecord(record domain.ScanRecord) {
	v.record = &record
}

// Record returns the displayed record.
func (v *View) Record() *domain.ScanRecord {
	return v.record
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHistory}
			}
		case "d":
			if v.record == nil {
				return v, nil
			}
			id := v.record.ID
			return v, func() tea.Msg { return messages.RemoveRequested{ID: id} }
		}

	case messages.HistoryUpdated:
		// The record may have been removed elsewhere.
		if v.record != nil {
			if _, ok := msg.Snapshot.Find(v.record.ID); !ok {
				return v, func() tea.Msg {
					return messages.ViewChanged{View: messages.ViewHistory}
				}
			}
		}
	}
	return v, nil
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Scan Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", separatorWidth(v.width)))
	b.WriteString("\n\n")

	if v.record == nil {
		b.WriteString(v.styles.Muted.Render("No scan selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	r := v.record
	b.WriteString(v.field("Type", v.styles.TypeBadge(r.ContentType).Render(styles.TypeLabel(r.ContentType))))
	b.WriteString(v.field("Value", r.DisplayValue))
	b.WriteString(v.field("Payload", r.RawPayload))
	b.WriteString(v.field("Scanned", r.CreatedAt.Local().Format(time.DateTime)))
	b.WriteString(v.field("ID", v.styles.Muted.Render(r.ID)))

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) field(label, value string) string {
	return fmt.Sprintf("%s %s\n", v.styles.Subtitle.Render(fmt.Sprintf("%-9s", label+":")), value)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[d] remove  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

func separatorWidth(width int) int {
	return max(0, min(width-4, 60))
}
