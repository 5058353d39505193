// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// RecordList displays scan records in a navigable list.
type RecordList struct {
	records  []domain.ScanRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.records) > 0 {
				r.selected = len(r.records) - 1
			}
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No scans yet")
	}

	// One line per record, minus header space.
	visibleCount := r.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRecord formats a single record as one line.
func (r *RecordList) renderRecord(index int, record *domain.ScanRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	stamp := record.CreatedAt.Local().Format(time.TimeOnly)
	badge := r.styles.TypeBadge(record.ContentType).Render(styles.TypeLabel(record.ContentType))

	maxValueLen := r.width - 26
	if maxValueLen < 10 {
		maxValueLen = 10
	}
	value := truncate(record.DisplayValue, maxValueLen)

	if index == r.selected {
		return indicator + badge + r.styles.Selected.Render(fmt.Sprintf("%s  %s", stamp, value))
	}
	return indicator + badge + r.styles.Muted.Render(stamp) + "  " + r.styles.Normal.Render(value)
}

// SetRecords replaces the listed records, keeping the selection on the
// same record when it is still present.
func (r *RecordList) SetRecords(records []domain.ScanRecord) {
	var selectedID string
	if cur := r.SelectedRecord(); cur != nil {
		selectedID = cur.ID
	}

	r.records = records
	r.selected = 0
	for i := range records {
		if records[i].ID == selectedID {
			r.selected = i
			break
		}
	}
}

// Records returns the listed records.
func (r *RecordList) Records() []domain.ScanRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.ScanRecord {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
