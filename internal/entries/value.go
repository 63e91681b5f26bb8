package entries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered JSON object. Key order is load-bearing: the
// formatter's duplicate-name suffixes are assigned in stored order, so every
// mapping in an entry tree keeps the order of the document it was parsed from.
type Map = orderedmap.OrderedMap[string, any]

func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// DecodeValue parses a raw JSON document into entry values: scalars stay
// scalars (numbers as json.Number), arrays become []any and objects become
// *Map with source key order preserved. The standard library decoder is used
// at token level because plain map[string]any would lose key order.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeAny(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	return v, nil
}

// EncodeValue is the inverse of DecodeValue. *Map values marshal their pairs
// in insertion order.
func EncodeValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

// CloneValue deep-copies an entry value through a JSON round trip.
func CloneValue(v any) (any, error) {
	raw, err := EncodeValue(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for clone: %w", err)
	}
	return DecodeValue(raw)
}

func decodeAny(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected token %v", delim)
		}
	}

	// string, json.Number, bool or nil
	return tok, nil
}

func decodeObject(dec *json.Decoder) (*Map, error) {
	m := NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}

		value, err := decodeAny(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}

	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	list := []any{}
	for dec.More() {
		value, err := decodeAny(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}

	// consume the closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}
