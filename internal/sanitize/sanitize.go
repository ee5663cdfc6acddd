// Package sanitize redacts secrets from diagnostic data and validates
// caller-supplied identifiers.
//
// Value and its renderers (Args, Kwargs) decide redaction from the
// argument name and from the shape of string values. They are applied to
// the diagnostic payload of errors and to log fields, never to the
// user-facing error message.
package sanitize

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Redacted replaces every value judged sensitive.
const Redacted = "[REDACTED]"

// sensitiveKeywords mark a key (case-insensitive substring) or a string
// value as secret-bearing.
var sensitiveKeywords = []string{
	"access_token",
	"refresh_token",
	"token",
	"password",
	"secret",
	"client_secret",
	"api_key",
	"device_code",
	"authorization",
	"auth",
	"credential",
	"key",
}

var secretPrefixes = []string{"bearer ", "token:", "secret:", "password:"}

// tokenKeyWords mark a key under which a long opaque string is a token.
var tokenKeyWords = []string{"token", "code", "auth", "key"}

// opaquePattern matches letters and digits joined by separators. Lengths
// checked alongside it count characters, not bytes.
var opaquePattern = regexp.MustCompile(`^[\p{L}\p{N}_.\-]+$`)

// IsSensitiveKey reports whether key names a secret.
func IsSensitiveKey(key string) bool {
	return containsAny(strings.ToLower(key), sensitiveKeywords)
}

// Value returns v with secrets replaced by Redacted. key is the name v was
// passed under and may be empty. Maps and slices are walked recursively;
// structs are converted to maps keyed by their JSON field names.
func Value(v any, key string) any {
	if key != "" && IsSensitiveKey(key) {
		return Redacted
	}

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return sanitizeString(val, key)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = Value(inner, k)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = Value(inner, "")
		}
		return out
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return val
	}

	return reflectValue(reflect.ValueOf(v))
}

func sanitizeString(s, key string) string {
	lower := strings.ToLower(s)
	for _, p := range secretPrefixes {
		if strings.Contains(lower, p) {
			return Redacted
		}
	}

	opaque := opaquePattern.MatchString(s)
	n := utf8.RuneCountInString(s)
	if n > 10 && opaque && containsAny(lower, sensitiveKeywords) {
		return Redacted
	}
	if n > 20 && opaque && key != "" && containsAny(strings.ToLower(key), tokenKeyWords) {
		return Redacted
	}
	return s
}

func reflectValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return reflectValue(rv.Elem())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			out[k] = Value(iter.Value().Interface(), k)
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = Value(rv.Index(i).Interface(), "")
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		t := rv.Type()
		for i := range rv.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			out[name] = Value(rv.Field(i).Interface(), name)
		}
		return out
	case reflect.String:
		return sanitizeString(rv.String(), "")
	}
	if rv.IsValid() && rv.CanInterface() {
		return rv.Interface()
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
