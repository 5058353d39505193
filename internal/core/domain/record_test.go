package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentType_IsValid(t *testing.T) {
	for _, ct := range AllContentTypes() {
		assert.True(t, ct.IsValid(), ct)
	}
	assert.False(t, ContentType("").IsValid())
	assert.False(t, ContentType("url").IsValid())
}

func TestAllContentTypes_PriorityOrder(t *testing.T) {
	assert.Equal(t, []ContentType{
		ContentTypeURL,
		ContentTypeEmail,
		ContentTypePhone,
		ContentTypeWiFiCredential,
		ContentTypePlainText,
	}, AllContentTypes())
}

func TestHistorySnapshot_Find(t *testing.T) {
	snap := HistorySnapshot{Records: []ScanRecord{
		{ID: "b", RawPayload: "two"},
		{ID: "a", RawPayload: "one"},
	}}

	rec, ok := snap.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "one", rec.RawPayload)

	_, ok = snap.Find("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, snap.Len())
}

func TestHistorySnapshot_Clone(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 45, 0, time.UTC)
	snap := HistorySnapshot{Records: []ScanRecord{{ID: "a", CreatedAt: now}}}

	clone := snap.Clone()
	clone.Records[0].ID = "changed"

	assert.Equal(t, "a", snap.Records[0].ID)
	assert.Nil(t, HistorySnapshot{}.Clone().Records)
}

func TestConnectivityState(t *testing.T) {
	tests := []struct {
		state      ConnectivityState
		definitive bool
		features   bool
	}{
		{ConnectivityUnknown, false, false},
		{ConnectivityChecking, false, false},
		{ConnectivityOnline, true, true},
		{ConnectivityOffline, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.definitive, tt.state.IsDefinitive())
			assert.Equal(t, tt.features, tt.state.AllowsFeatures())
		})
	}

	assert.Equal(t, ConnectivityOnline, StateFromReachable(true))
	assert.Equal(t, ConnectivityOffline, StateFromReachable(false))
}
