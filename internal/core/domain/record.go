package domain

import "time"

// ContentType is the semantic classification of a decoded payload.
type ContentType string

// The closed set of content types.
const (
	ContentTypeURL            ContentType = "URL"
	ContentTypeEmail          ContentType = "EMAIL"
	ContentTypePhone          ContentType = "PHONE"
	ContentTypeWiFiCredential ContentType = "WIFI_CREDENTIAL"
	ContentTypePlainText      ContentType = "PLAIN_TEXT"
)

// AllContentTypes lists every content type in classification priority order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeURL,
		ContentTypeEmail,
		ContentTypePhone,
		ContentTypeWiFiCredential,
		ContentTypePlainText,
	}
}

// IsValid returns true if the content type is recognised.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeURL, ContentTypeEmail, ContentTypePhone,
		ContentTypeWiFiCredential, ContentTypePlainText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c ContentType) String() string {
	return string(c)
}

// Classification is the result of classifying a raw payload.
type Classification struct {
	// ContentType is the semantic type of the payload.
	ContentType ContentType

	// DisplayValue is the canonical, human-presentable form of the payload.
	DisplayValue string
}

// ScanRecord is one immutable entry in the scan history.
// Records are created by the history service and never modified afterwards.
type ScanRecord struct {
	// ID is unique for the lifetime of the history collection.
	ID string

	// RawPayload is the decoded payload, preserved verbatim.
	RawPayload string

	// ContentType is the classification of RawPayload.
	ContentType ContentType

	// DisplayValue is derived from RawPayload by the classifier.
	DisplayValue string

	// CreatedAt is the classification time. Non-decreasing across
	// consecutive records.
	CreatedAt time.Time
}

// HistorySnapshot is the materialised scan history.
type HistorySnapshot struct {
	// Records is ordered newest-first, by insertion.
	Records []ScanRecord
}

// Len returns the number of records.
func (s HistorySnapshot) Len() int {
	return len(s.Records)
}

// Find returns the record with the given ID.
func (s HistorySnapshot) Find(id string) (ScanRecord, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return ScanRecord{}, false
}

// Clone returns a snapshot that shares no backing array with s.
func (s HistorySnapshot) Clone() HistorySnapshot {
	if s.Records == nil {
		return HistorySnapshot{}
	}
	records := make([]ScanRecord, len(s.Records))
	copy(records, s.Records)
	return HistorySnapshot{Records: records}
}

// SourceMode describes how a detection source produces payloads.
type SourceMode string

const (
	// SourceModeStream is a continuous stream (camera) that may repeat payloads.
	SourceModeStream SourceMode = "stream"

	// SourceModeGallery is a one-shot import that is never debounced.
	SourceModeGallery SourceMode = "gallery"
)
