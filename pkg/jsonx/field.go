// Package jsonx provides a tri-state JSON field type that distinguishes
// "absent" from "explicit null" from "present", used by the config
// cascade to tell "inherit" apart from "explicitly cleared".
package jsonx

import "encoding/json"

// Field is a tri-state JSON value: unset (key absent), explicit null, or a
// concrete value. Used for config inputs where null carries meaning
// distinct from "not specified" (e.g. an environment variable explicitly
// unset in a child process versus inherited from the parent).
type Field[T any] struct {
	set  bool
	null bool
	val  T
}

func (o Field[T]) IsSet() bool      { return o.set }
func (o Field[T]) IsNull() bool     { return o.set && o.null }
func (o Field[T]) Value() (T, bool) { return o.val, o.set && !o.null }

func bytesTrimSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\n' || b[i] == '\t' || b[i] == '\r') {
		i++
	}
	j := len(b) - 1
	for j >= i && (b[j] == ' ' || b[j] == '\n' || b[j] == '\t' || b[j] == '\r') {
		j--
	}
	return b[i : j+1]
}

func (o *Field[T]) UnmarshalJSON(b []byte) error {
	// A small, allocation-friendly implementation is fine.
	// We only need to detect explicit null vs value.
	switch string(bytesTrimSpace(b)) {
	case "null":
		o.set, o.null = true, true
		var zero T
		o.val = zero
		return nil
	default:
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		o.set, o.null, o.val = true, false, v
		return nil
	}
}
