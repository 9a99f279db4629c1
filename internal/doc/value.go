package doc

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Value is a sealed interface over the constrained frontmatter dialect:
// null, boolean, integer, float, string, one level of lists, and string-keyed
// maps. Only the types in this file implement it. The dialect is fixed; it is
// not a general configuration language.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an explicit null (`null` or `~`).
type Null struct{}

func (Null) value() {}

// String represents a string scalar.
type String string

func (String) value() {}

// Int represents an integer scalar. Always int64.
type Int int64

func (Int) value() {}

// Float represents a float scalar of the form <digits>.<digits>.
type Float float64

func (Float) value() {}

// Bool represents a boolean scalar.
type Bool bool

func (Bool) value() {}

// List represents a list of values.
type List []Value

func (List) value() {}

// Map represents a string-keyed map of values.
// Use SortedKeys for deterministic iteration.
type Map map[string]Value

func (Map) value() {}

// SortedKeys returns the map's keys in lexicographic order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// CoerceScalar decodes a scalar token using the fixed coercion table:
//
//	"null" / "~"        -> Null
//	"true" / "false"    -> Bool
//	digits              -> Int
//	digits.digits       -> Float
//	quoted string       -> String with the quotes stripped
//	anything else       -> bare String
//
// This is the whole table. It is deliberately not a type inference system.
func CoerceScalar(token string) Value {
	switch token {
	case "null", "~":
		return Null{}
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if intPattern.MatchString(token) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err == nil {
			return Int(n)
		}
	}
	if floatPattern.MatchString(token) {
		f, err := strconv.ParseFloat(token, 64)
		if err == nil {
			return Float(f)
		}
	}
	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') ||
			(token[0] == '\'' && token[len(token)-1] == '\'') {
			return String(token[1 : len(token)-1])
		}
	}
	return String(token)
}

// EmitScalar is the inverse of CoerceScalar: it encodes a scalar Value as a
// dialect token. Strings are always quoted so that numeric-looking strings
// survive a round trip. Strings must not contain double quotes or newlines;
// the dialect has no escape sequences.
func EmitScalar(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case String:
		return `"` + string(val) + `"`
	default:
		// Lists and maps are emitted as indented blocks, never as tokens.
		return `""`
	}
}

// FromAny converts a decoded Go value (for example from a YAML or JSON
// unmarshal into any) to a dialect Value. Unsupported types are an error.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = converted
		}
		return list, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = converted
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// scalarText returns the literal text of a scalar Value for permissive
// decoding paths, for example reading a tag that was emitted unquoted.
func scalarText(v Value) (string, bool) {
	switch val := v.(type) {
	case String:
		return string(val), true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64), true
	case Bool:
		if val {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// asString returns the value as a string when it is one.
func asString(v Value) (string, bool) {
	s, ok := v.(String)
	if !ok {
		return "", false
	}
	return string(s), true
}

// asInt returns the value as an int64 when it is one.
func asInt(v Value) (int64, bool) {
	n, ok := v.(Int)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// asStringList flattens a List of scalars to their literal strings.
func asStringList(v Value) ([]string, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := scalarText(elem)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
