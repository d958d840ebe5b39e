// Package redact masks contact details and portal credentials in
// requirements text before it is echoed back in a report.
package redact

import "regexp"

// Marker replaces every redacted span.
const Marker = "[REDACTED]"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// Email addresses
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		// Phone numbers: +1 (555) 010-2030, 555.010.2030, 555-010-2030
		`(?:\+\d{1,3}[ .\-]?)?(?:\(\d{3}\)|\d{3})[ .\-]\d{3}[ .\-]\d{4}\b`,
		// Bid portal and file share credentials
		`(?i)\b(?:password|passwd|passcode|access[ \t]+code|pin)[ \t]*[:=][ \t]*\S+`,
		// Bearer tokens pasted from portal links
		`Bearer\s+[A-Za-z0-9\-._~+/]+=*`,
		// Signed share links carry their credential in the query string
		`(?i)https?://\S+[?&](?:token|sig|signature|key)=[^\s&]+\S*`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces contact details and credentials in text with Marker.
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, Marker)
	}
	return text
}
