package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DateLayouts are the date formats accepted for time fields, in the order
// they are tried. County sale lists rarely use RFC 3339.
var DateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses s using the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("model: invalid date %q", s)
}

// Opt is an explicitly present-or-absent value. The zero value is absent.
// Enrichment fields use Opt instead of sentinel zeros so that a genuine 0
// (e.g. a walk score of 0) is distinguishable from "not collected".
type Opt[T any] struct {
	val T
	ok  bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{val: v, ok: true}
}

// None returns an absent Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// FromPtr converts a nullable pointer (as scanned from a database row) into an Opt.
func FromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.val, o.ok
}

// Present reports whether a value is set.
func (o Opt[T]) Present() bool {
	return o.ok
}

// OrElse returns the value if present, otherwise def.
func (o Opt[T]) OrElse(def T) T {
	if o.ok {
		return o.val
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Opt[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.val
	return &v
}

// MarshalJSON encodes an absent value as null.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}

// UnmarshalJSON treats null as absent. Time values also accept the
// DateLayouts formats.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if tp, ok := any(&v).(*time.Time); ok {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := ParseDate(s)
		if err != nil {
			return err
		}
		*tp = t
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
