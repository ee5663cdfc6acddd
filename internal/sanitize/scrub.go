package sanitize

import (
	"regexp"
	"sort"
)

// Rule detects one kind of secret embedded in free text.
type Rule struct {
	ID      string
	Pattern *regexp.Regexp
}

// DefaultRules cover the credentials that can appear in Trakt responses
// and request echoes.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "bearer", Pattern: regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.=]+`)},
		{ID: "json-token", Pattern: regexp.MustCompile(`(?i)"(?:access_token|refresh_token|device_code|client_secret|code)"\s*:\s*"[^"]*"`)},
		{ID: "query-secret", Pattern: regexp.MustCompile(`(?i)(?:client_secret|access_token|refresh_token|api_key)=[^&\s]+`)},
		{ID: "generic-secret", Pattern: regexp.MustCompile(`(?i)(?:secret|password|passwd)\s*[:=]\s*['"]?[^\s'"]{8,}['"]?`)},
		{ID: "private-key", Pattern: regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH )?PRIVATE KEY-----`)},
	}
}

// Scrubber redacts secrets from response bodies before they are logged
// or attached to error data.
type Scrubber struct {
	rules []Rule
}

// NewScrubber returns a scrubber for rules. No rules means DefaultRules.
func NewScrubber(rules ...Rule) *Scrubber {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Scrubber{rules: rules}
}

type span struct{ start, end int }

// Scrub returns text with every match replaced by Redacted. Overlapping
// matches are merged first.
func (s *Scrubber) Scrub(text string) string {
	if s == nil || text == "" {
		return text
	}

	var spans []span
	for _, r := range s.rules {
		for _, m := range r.Pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, span{m[0], m[1]})
		}
	}
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := []span{spans[0]}
	for _, cur := range spans[1:] {
		last := &merged[len(merged)-1]
		if cur.start <= last.end {
			last.end = max(last.end, cur.end)
			continue
		}
		merged = append(merged, cur)
	}

	out := make([]byte, 0, len(text))
	prev := 0
	for _, sp := range merged {
		out = append(out, text[prev:sp.start]...)
		out = append(out, Redacted...)
		prev = sp.end
	}
	out = append(out, text[prev:]...)
	return string(out)
}
