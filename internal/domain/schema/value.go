// internal/domain/schema/value.go
package schema

import (
	"fmt"
	"strconv"
)

// ValueKind tags a field value at the boundary between the schema and the
// store adapter. Seeding never hands raw untyped data to the store: every
// declared field value is classified here first, so value handling (rich
// text sanitization, pick resolution, repeatable flattening) keys off the
// tag rather than reflection on arbitrary input.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueRichText
	ValueNumber
	ValueBool
	ValueURL
	ValueFileRef
	ValuePick
	ValueMultiPick
	ValueRepeated
)

// String returns the kind's wire-friendly name.
func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueRichText:
		return "richtext"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueURL:
		return "url"
	case ValueFileRef:
		return "fileref"
	case ValuePick:
		return "pick"
	case ValueMultiPick:
		return "multipick"
	case ValueRepeated:
		return "repeated"
	}
	return "unknown"
}

// Value is the tagged variant for one field value. Exactly one of the
// payload members is meaningful for a given kind.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
	list []Value
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Text returns a plain-text value.
func Text(s string) Value { return Value{kind: ValueText, str: s} }

// RichText returns an HTML rich-text value.
func RichText(s string) Value { return Value{kind: ValueRichText, str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, flag: b} }

// URL returns a URL value.
func URL(s string) Value { return Value{kind: ValueURL, str: s} }

// FileRef returns a media filename reference.
func FileRef(s string) Value { return Value{kind: ValueFileRef, str: s} }

// Pick returns a single relationship reference.
func Pick(target string) Value { return Value{kind: ValuePick, str: target} }

// MultiPick returns a multi relationship reference.
func MultiPick(targets ...string) Value {
	vs := make([]Value, len(targets))
	for i, t := range targets {
		vs[i] = Pick(t)
	}
	return Value{kind: ValueMultiPick, list: vs}
}

// Repeated returns a repeatable wrapper around scalar values.
func Repeated(vs ...Value) Value { return Value{kind: ValueRepeated, list: vs} }

// Str returns the string payload for text-like kinds.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload.
func (v Value) Num() float64 { return v.num }

// Flag returns the boolean payload.
func (v Value) Flag() bool { return v.flag }

// List returns the element values for multipick and repeated kinds.
func (v Value) List() []Value { return v.list }

// IsRichText reports whether the value carries HTML that must be
// sanitized before it reaches the store.
func (v Value) IsRichText() bool {
	if v.kind == ValueRichText {
		return true
	}
	if v.kind == ValueRepeated {
		for _, e := range v.list {
			if e.kind == ValueRichText {
				return true
			}
		}
	}
	return false
}

// Interface returns the store-facing representation of the value: strings
// for text-like kinds, float64/bool for scalars, and []any for multipick
// and repeated values.
func (v Value) Interface() any {
	switch v.kind {
	case ValueNumber:
		return v.num
	case ValueBool:
		return v.flag
	case ValueMultiPick, ValueRepeated:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	default:
		return v.str
	}
}

// MapStr applies fn to every string payload in the value, recursing into
// repeated and multipick elements. Used to run the rich-text sanitizer
// over a value without the caller caring about its shape.
func (v Value) MapStr(fn func(string) string) Value {
	switch v.kind {
	case ValueMultiPick, ValueRepeated:
		out := make([]Value, len(v.list))
		for i, e := range v.list {
			out[i] = e.MapStr(fn)
		}
		return Value{kind: v.kind, list: out}
	case ValueNumber, ValueBool:
		return v
	default:
		return Value{kind: v.kind, str: fn(v.str)}
	}
}

// scalarKind maps a store field type to the value kind of one element.
func scalarKind(fieldType string) ValueKind {
	switch fieldType {
	case "wysiwyg", "richtext":
		return ValueRichText
	case "number", "currency":
		return ValueNumber
	case "boolean":
		return ValueBool
	case "website", "url":
		return ValueURL
	case "file", "avatar":
		return ValueFileRef
	case "pick":
		return ValuePick
	default:
		// text, paragraph, code, email, phone, date and any type this
		// layer has never heard of: carried as opaque text.
		return ValueText
	}
}

// ClassifyValue converts a raw, loosely-typed schema field value into a
// tagged Value according to the declared field. Field types are an open
// set owned by the store; unknown types degrade to text rather than fail.
// An error means the raw value's shape cannot serve the declared type at
// all (a list where a scalar is required, or vice versa).
func ClassifyValue(field Field, raw any) (Value, error) {
	kind := scalarKind(field.Type)

	if list, ok := raw.([]any); ok {
		if field.Repeatable() {
			elems := make([]Value, 0, len(list))
			for _, e := range list {
				v, err := classifyScalar(kind, e)
				if err != nil {
					return Value{}, fmt.Errorf("field %q: %w", field.Name, err)
				}
				elems = append(elems, v)
			}
			return Repeated(elems...), nil
		}
		if kind == ValuePick {
			targets := make([]string, 0, len(list))
			for _, e := range list {
				targets = append(targets, fmt.Sprintf("%v", e))
			}
			return MultiPick(targets...), nil
		}
		return Value{}, fmt.Errorf("field %q: list value for non-repeatable %s field", field.Name, field.Type)
	}

	if ss, ok := raw.([]string); ok {
		anys := make([]any, len(ss))
		for i, s := range ss {
			anys[i] = s
		}
		return ClassifyValue(field, anys)
	}

	v, err := classifyScalar(kind, raw)
	if err != nil {
		return Value{}, fmt.Errorf("field %q: %w", field.Name, err)
	}
	if field.Repeatable() {
		return Repeated(v), nil
	}
	return v, nil
}

func classifyScalar(kind ValueKind, raw any) (Value, error) {
	switch kind {
	case ValueNumber:
		switch n := raw.(type) {
		case float64:
			return Number(n), nil
		case int:
			return Number(float64(n)), nil
		case int64:
			return Number(float64(n)), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return Value{}, fmt.Errorf("cannot parse %q as number", n)
			}
			return Number(f), nil
		}
		return Value{}, fmt.Errorf("cannot use %T as number", raw)
	case ValueBool:
		switch b := raw.(type) {
		case bool:
			return Bool(b), nil
		case string:
			return Bool(b == "1" || b == "true" || b == "yes"), nil
		case float64:
			return Bool(b != 0), nil
		case int:
			return Bool(b != 0), nil
		}
		return Value{}, fmt.Errorf("cannot use %T as boolean", raw)
	default:
		s, ok := raw.(string)
		if !ok {
			// Numbers and booleans are legal in text-ish positions; the
			// store stores strings, so format them.
			switch raw.(type) {
			case float64, int, int64, bool:
				s = fmt.Sprintf("%v", raw)
			default:
				return Value{}, fmt.Errorf("cannot use %T as %s", raw, kind)
			}
		}
		return Value{kind: kind, str: s}, nil
	}
}
