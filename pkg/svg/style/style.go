// Package style parses SVG inline style attributes ("fill:#fff;stroke:none")
// into ordered declarations so single keys can be rewritten in place.
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingKey is returned when a declaration expected to be rewritten is
// absent from the style.
var ErrMissingKey = errors.New("style key not found")

// KeyError names the missing key.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("style key %q not found", e.Key)
}

func (e *KeyError) Is(target error) bool { return target == ErrMissingKey }

// Declaration is a single key:value pair.
type Declaration struct {
	Key   string
	Value string
}

// Style is an ordered list of declarations.
type Style struct {
	decls []Declaration
	// trailing keeps a terminating ';' so untouched styles round-trip.
	trailing bool
}

// Parse splits s on ';' and each part on its first ':'. Empty parts are
// dropped; parts without a colon are kept as keys with an empty value.
func Parse(s string) Style {
	var st Style
	trimmed := strings.TrimSpace(s)
	st.trailing = strings.HasSuffix(trimmed, ";")
	for _, part := range strings.Split(trimmed, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, _ := strings.Cut(part, ":")
		st.decls = append(st.decls, Declaration{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return st
}

// Get returns the value of key.
func (s Style) Get(key string) (string, bool) {
	for _, d := range s.decls {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

// Float returns the numeric value of key.
func (s Style) Float(key string) (float64, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, &KeyError{Key: key}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("style key %q: %w", key, err)
	}
	return f, nil
}

// Replace rewrites the value of the first declaration named key, leaving
// every other declaration and the order untouched.
func (s Style) Replace(key, value string) (Style, error) {
	out := s.clone()
	for i := range out.decls {
		if out.decls[i].Key == key {
			out.decls[i].Value = value
			return out, nil
		}
	}
	return s, &KeyError{Key: key}
}

// Set replaces key or appends it when absent.
func (s Style) Set(key, value string) Style {
	if out, err := s.Replace(key, value); err == nil {
		return out
	}
	out := s.clone()
	out.decls = append(out.decls, Declaration{Key: key, Value: value})
	return out
}

// Keys lists declaration keys in order.
func (s Style) Keys() []string {
	keys := make([]string, len(s.decls))
	for i, d := range s.decls {
		keys[i] = d.Key
	}
	return keys
}

func (s Style) String() string {
	parts := make([]string, len(s.decls))
	for i, d := range s.decls {
		parts[i] = d.Key + ":" + d.Value
	}
	out := strings.Join(parts, ";")
	if s.trailing && out != "" {
		out += ";"
	}
	return out
}

func (s Style) clone() Style {
	return Style{decls: append([]Declaration(nil), s.decls...), trailing: s.trailing}
}
