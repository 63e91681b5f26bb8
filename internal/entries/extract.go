package entries

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Extract evaluates a JSONPath expression against a document parsed from
// remote JSON (map[string]any / []any shapes, as produced by oj.Parse).
//
// An empty expression is the identity: the whole document is returned. A
// single match returns the matched value, multiple matches (wildcards)
// collapse to a list in result order. Zero matches report matched=false,
// which is a valid outcome, not an error; only a malformed expression errors.
func Extract(doc any, path string) (value any, matched bool, err error) {
	if path == "" {
		return doc, true, nil
	}

	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}

	results := expr.Get(doc)
	switch len(results) {
	case 0:
		return nil, false, nil
	case 1:
		return results[0], true, nil
	default:
		return results, true, nil
	}
}
