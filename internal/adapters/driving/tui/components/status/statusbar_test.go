package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, domain.ConnectivityUnknown, bar.Connectivity())
	assert.False(t, bar.Features())
	assert.Equal(t, 0, bar.RecordCount())
	assert.Equal(t, "", bar.Message())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
}

func TestStatusBar_View(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetConnectivity(domain.ConnectivityOnline)
	bar.SetFeatures(true)
	bar.SetRecordCount(7)

	view := bar.View()

	assert.Contains(t, view, "online")
	assert.Contains(t, view, "features on")
	assert.Contains(t, view, "7 scans")
	assert.Contains(t, view, "q: quit")
}

func TestStatusBar_Messages(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)

	bar.SetMessage("Removed 1 scan")
	assert.False(t, bar.IsError())
	assert.Contains(t, bar.View(), "Removed 1 scan")

	bar.SetError(errors.New("disk full"))
	assert.True(t, bar.IsError())
	assert.Contains(t, bar.View(), "Error: disk full")

	bar.SetError(nil)
	assert.Equal(t, "", bar.Message())
	assert.False(t, bar.IsError())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
