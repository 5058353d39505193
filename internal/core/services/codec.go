package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// recordJSON is the persisted form of a ScanRecord.
// Payloads that are not valid UTF-8 are stored base64-encoded and marked
// with an encoding field, since JSON strings cannot carry arbitrary bytes.
type recordJSON struct {
	ID                   string `json:"id"`
	RawPayload           string `json:"rawPayload"`
	RawPayloadEncoding   string `json:"rawPayloadEncoding,omitempty"`
	ContentType          string `json:"contentType"`
	DisplayValue         string `json:"displayValue"`
	DisplayValueEncoding string `json:"displayValueEncoding,omitempty"`
	CreatedAt            string `json:"createdAt"`
}

const encodingBase64 = "base64"

// encodeBytes returns s unchanged when it is valid UTF-8, otherwise its
// base64 form and the encoding marker.
func encodeBytes(s string) (string, string) {
	if utf8.ValidString(s) {
		return s, ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), encodingBase64
}

func decodeBytes(s, encoding string) (string, error) {
	switch encoding {
	case "":
		return s, nil
	case encodingBase64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown encoding %q", encoding)
	}
}

// EncodeHistory serialises a snapshot as a JSON array of records,
// newest first, with createdAt in RFC 3339 (UTC, nanosecond precision).
func EncodeHistory(snapshot domain.HistorySnapshot) ([]byte, error) {
	out := make([]recordJSON, len(snapshot.Records))
	for i, r := range snapshot.Records {
		raw, rawEnc := encodeBytes(r.RawPayload)
		display, displayEnc := encodeBytes(r.DisplayValue)
		out[i] = recordJSON{
			ID:                   r.ID,
			RawPayload:           raw,
			RawPayloadEncoding:   rawEnc,
			ContentType:          r.ContentType.String(),
			DisplayValue:         display,
			DisplayValueEncoding: displayEnc,
			CreatedAt:            r.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return json.Marshal(out)
}

// DecodeHistory parses data produced by EncodeHistory.
// It rejects unknown content types, missing or duplicate IDs,
// unknown payload encodings and unparseable timestamps.
func DecodeHistory(data []byte) (domain.HistorySnapshot, error) {
	var in []recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.HistorySnapshot{}, fmt.Errorf("decoding history: %w", err)
	}
	if len(in) == 0 {
		return domain.HistorySnapshot{}, nil
	}

	seen := make(map[string]struct{}, len(in))
	records := make([]domain.ScanRecord, len(in))
	for i, r := range in {
		if r.ID == "" {
			return domain.HistorySnapshot{}, fmt.Errorf("record %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return domain.HistorySnapshot{}, fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		ct := domain.ContentType(r.ContentType)
		if !ct.IsValid() {
			return domain.HistorySnapshot{}, fmt.Errorf("record %q: unknown content type %q", r.ID, r.ContentType)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return domain.HistorySnapshot{}, fmt.Errorf("record %q: parsing createdAt: %w", r.ID, err)
		}
		raw, err := decodeBytes(r.RawPayload, r.RawPayloadEncoding)
		if err != nil {
			return domain.HistorySnapshot{}, fmt.Errorf("record %q: decoding rawPayload: %w", r.ID, err)
		}
		display, err := decodeBytes(r.DisplayValue, r.DisplayValueEncoding)
		if err != nil {
			return domain.HistorySnapshot{}, fmt.Errorf("record %q: decoding displayValue: %w", r.ID, err)
		}

		records[i] = domain.ScanRecord{
			ID:           r.ID,
			RawPayload:   raw,
			ContentType:  ct,
			DisplayValue: display,
			CreatedAt:    createdAt.UTC(),
		}
	}
	return domain.HistorySnapshot{Records: records}, nil
}
