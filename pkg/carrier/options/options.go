// Package options implements the declarative key-to-code tables carrier
// packages use to expose and consume carrier-specific option vocabularies
// under canonical names. A table maps canonical option keys to carrier
// codes in three kinds: plain value passthrough, boolean flags whose
// presence implies true, and typed entries with a coercion function.
// Application order follows the declared table, never the input mapping,
// because some carriers' wire formats are order-sensitive.
package options

import "fmt"

// Kind classifies how a table entry treats the canonical value.
type Kind int

const (
	// Value passes the canonical value through as-is.
	Value Kind = iota
	// Flag ignores the canonical value; presence of the key materializes
	// the carrier code with a true payload.
	Flag
	// Typed runs the canonical value through the entry's coercion function.
	Typed
)

// Entry declares one canonical key's mapping to a carrier code.
type Entry struct {
	Key     string
	Code    string
	Kind    Kind
	Coerce  func(any) (any, error)
	Default any
}

// Pair is one materialized (carrier code, value) option.
type Pair struct {
	Key   string
	Code  string
	Value any
}

// Table is an ordered, immutable set of option entries for one carrier and
// operation. Declare it once per carrier package.
type Table struct {
	entries []Entry
	index   map[string]int
}

// NewTable builds a table from entries in declaration order.
func NewTable(entries ...Entry) Table {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return Table{entries: entries, index: index}
}

// Lookup returns the entry declared for a canonical key.
func (t Table) Lookup(key string) (Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Apply materializes the canonical options this table declares, in declared
// order. Unknown canonical keys are silently dropped so new canonical
// options never break old carrier modules. A coercion failure propagates:
// silently dropping a user-specified option could produce a materially
// different shipment.
func (t Table) Apply(opts map[string]any) ([]Pair, error) {
	pairs := make([]Pair, 0, len(t.entries))
	for _, e := range t.entries {
		raw, present := opts[e.Key]
		if !present {
			if e.Default == nil {
				continue
			}
			raw = e.Default
		}

		value := raw
		switch e.Kind {
		case Flag:
			value = true
		case Typed:
			if e.Coerce != nil {
				coerced, err := e.Coerce(raw)
				if err != nil {
					return nil, fmt.Errorf("option %q: %w", e.Key, err)
				}
				value = coerced
			}
		}

		pairs = append(pairs, Pair{Key: e.Key, Code: e.Code, Value: value})
	}
	return pairs, nil
}

// Codes returns just the carrier codes of the materialized pairs, in order.
func Codes(pairs []Pair) []string {
	codes := make([]string, len(pairs))
	for i, p := range pairs {
		codes[i] = p.Code
	}
	return codes
}

// AsBool coerces common carrier representations of booleans.
func AsBool(v any) (any, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case string:
		switch value {
		case "true", "1", "yes", "Y":
			return true, nil
		case "false", "0", "no", "N":
			return false, nil
		}
		return nil, fmt.Errorf("cannot coerce %q to bool", value)
	case nil:
		return true, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to bool", v)
}

// AsFloat coerces numeric option values to float64.
func AsFloat(v any) (any, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err != nil {
			return nil, fmt.Errorf("cannot coerce %q to float: %w", value, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to float", v)
}
