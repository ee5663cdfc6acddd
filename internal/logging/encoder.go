// internal/logging/encoder.go
package logging

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/trakt-mcp/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// reservedKeys are written by the encoder itself. Fields using them are
// dropped rather than producing duplicate JSON keys.
var reservedKeys = map[string]bool{
	"ts":         true,
	"level":      true,
	"logger":     true,
	"msg":        true,
	"caller":     true,
	"function":   true,
	"stacktrace": true,
}

// Secret creates a field for config.Secret that records only its length.
func Secret(key string, val config.Secret) zap.Field {
	return RedactedString(key, val.Value())
}

// RedactedString creates a field with the value replaced by its length in
// characters.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, "[REDACTED:"+strconv.Itoa(utf8.RuneCountInString(val))+"]")
}

// CompactEncoder wraps a zapcore.Encoder. It drops empty and reserved
// fields and redacts sensitive ones, both for fields bound with With and
// for fields passed at the call site.
type CompactEncoder struct {
	zapcore.Encoder
	redactFields map[string]bool
	redactRegex  []*regexp.Regexp
}

// NewCompactEncoder wraps base. Redaction rules apply only when enabled.
func NewCompactEncoder(base zapcore.Encoder, cfg RedactionConfig) (*CompactEncoder, error) {
	enc := &CompactEncoder{Encoder: base, redactFields: map[string]bool{}}
	if !cfg.Enabled {
		return enc, nil
	}

	for _, f := range cfg.Fields {
		enc.redactFields[strings.ToLower(f)] = true
	}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		enc.redactRegex = append(enc.redactRegex, re)
	}
	return enc, nil
}

// filter returns the field to encode and false when it must be dropped.
func (e *CompactEncoder) filter(f zapcore.Field) (zapcore.Field, bool) {
	if reservedKeys[f.Key] {
		return f, false
	}
	switch f.Type {
	case zapcore.StringType:
		if f.String == "" {
			return f, false
		}
		if e.redactFields[strings.ToLower(f.Key)] {
			return zap.String(f.Key, "[REDACTED]"), true
		}
		if e.matchesPattern(f.String) {
			return zap.String(f.Key, "[REDACTED:pattern]"), true
		}
	case zapcore.ReflectType:
		if f.Interface == nil {
			return f, false
		}
		if e.redactFields[strings.ToLower(f.Key)] {
			return zap.String(f.Key, "[REDACTED]"), true
		}
	case zapcore.SkipType:
		return f, false
	default:
		if e.redactFields[strings.ToLower(f.Key)] {
			return zap.String(f.Key, "[REDACTED]"), true
		}
	}
	return f, true
}

func (e *CompactEncoder) matchesPattern(val string) bool {
	for _, re := range e.redactRegex {
		if re.MatchString(val) {
			return true
		}
	}
	return false
}

// EncodeEntry filters call-site fields before delegating. When a key
// repeats, the last occurrence wins, so explicit fields override the ones
// injected from the request context.
func (e *CompactEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	seen := make(map[string]bool, len(fields))
	kept := make([]zapcore.Field, 0, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f.Type != zapcore.SkipType {
			if seen[f.Key] {
				continue
			}
			seen[f.Key] = true
		}
		if f, ok := e.filter(f); ok {
			kept = append(kept, f)
		}
	}
	slices.Reverse(kept)
	return e.Encoder.EncodeEntry(ent, kept)
}

// AddString handles fields bound with With.
func (e *CompactEncoder) AddString(key, val string) {
	if f, ok := e.filter(zap.String(key, val)); ok {
		e.Encoder.AddString(key, f.String)
	}
}

// AddReflected drops nil values and redacts sensitive keys.
func (e *CompactEncoder) AddReflected(key string, val interface{}) error {
	f, ok := e.filter(zap.Reflect(key, val))
	if !ok {
		return nil
	}
	if f.Type == zapcore.StringType {
		e.Encoder.AddString(key, f.String)
		return nil
	}
	return e.Encoder.AddReflected(key, val)
}

// AddByteString redacts sensitive field names.
func (e *CompactEncoder) AddByteString(key string, val []byte) {
	if e.redactFields[strings.ToLower(key)] {
		e.Encoder.AddString(key, "[REDACTED]")
		return
	}
	e.Encoder.AddByteString(key, val)
}

// AddObject redacts sensitive field names.
func (e *CompactEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.redactFields[strings.ToLower(key)] {
		e.Encoder.AddString(key, "[REDACTED]")
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

// Clone keeps the wrapper around the cloned encoder.
func (e *CompactEncoder) Clone() zapcore.Encoder {
	return &CompactEncoder{
		Encoder:      e.Encoder.Clone(),
		redactFields: e.redactFields,
		redactRegex:  e.redactRegex,
	}
}
