package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

var (
	uriPattern   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.\-]*)://\S+$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-.\s/]+$`)
)

// Phone numbers shorter than this are treated as text (short codes, years).
// E.164 caps numbers at 15 digits.
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// uriSchemes are the schemes recognised as URLs besides http and https.
var uriSchemes = map[string]bool{
	"http":          true,
	"https":         true,
	"ftp":           true,
	"ftps":          true,
	"sftp":          true,
	"rtsp":          true,
	"ws":            true,
	"wss":           true,
	"market":        true,
	"itms-apps":     true,
	"itms-services": true,
	"intent":        true,
}

// Classify maps a raw payload to its content type and display value.
// The first matching rule wins, in the order URL, EMAIL, PHONE,
// WIFI_CREDENTIAL; anything else is PLAIN_TEXT. Classify is total:
// malformed input degrades to PLAIN_TEXT.
func Classify(raw string) domain.Classification {
	trimmed := strings.TrimSpace(raw)

	if display, ok := classifyURL(trimmed); ok {
		return domain.Classification{ContentType: domain.ContentTypeURL, DisplayValue: display}
	}
	if display, ok := classifyEmail(trimmed); ok {
		return domain.Classification{ContentType: domain.ContentTypeEmail, DisplayValue: display}
	}
	if display, ok := classifyPhone(trimmed); ok {
		return domain.Classification{ContentType: domain.ContentTypePhone, DisplayValue: display}
	}
	if display, ok := classifyWiFi(trimmed); ok {
		return domain.Classification{ContentType: domain.ContentTypeWiFiCredential, DisplayValue: display}
	}
	return domain.Classification{ContentType: domain.ContentTypePlainText, DisplayValue: raw}
}

func classifyURL(s string) (string, bool) {
	m := uriPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	scheme := strings.ToLower(m[1])
	if !uriSchemes[scheme] {
		return "", false
	}
	return scheme + s[len(m[1]):], true
}

func classifyEmail(s string) (string, bool) {
	if rest, ok := cutPrefixFold(s, "mailto:"); ok {
		addr, _, _ := strings.Cut(rest, "?")
		addr = strings.TrimSpace(addr)
		return addr, addr != ""
	}
	if rest, ok := cutPrefixFold(s, "MATMSG:"); ok {
		to := fieldValue(splitFields(rest), "TO")
		return to, to != ""
	}
	if emailPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

func classifyPhone(s string) (string, bool) {
	if rest, ok := cutPrefixFold(s, "tel:"); ok {
		number := strings.TrimSpace(rest)
		return number, number != ""
	}
	if !phonePattern.MatchString(s) {
		return "", false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return "", false
	}
	return s, true
}

func classifyWiFi(s string) (string, bool) {
	rest, ok := cutPrefixFold(s, "WIFI:")
	if !ok {
		return "", false
	}
	fields := splitFields(rest)
	if !hasField(fields, "S") {
		return "", false
	}
	ssid := fieldValue(fields, "S")
	return ssid, ssid != ""
}

// splitFields splits a MECARD-style body ("K:V;K:V;;") into unescaped
// fields. A backslash escapes the following character.
func splitFields(body string) []string {
	var (
		fields  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range body {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}

func hasField(fields []string, key string) bool {
	for _, f := range fields {
		if k, _, ok := strings.Cut(f, ":"); ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func fieldValue(fields []string, key string) string {
	for _, f := range fields {
		if k, v, ok := strings.Cut(f, ":"); ok && strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
