package entries

// Reserved field names. A mapping carrying string-valued apiUrl and JSONPath
// fields is a remote source definition; dataReturn and dataError are written
// only by the resolver. Everything outside this file treats entry values as
// opaque and goes through ClassifySource.
const (
	FieldAPIURL     = "apiUrl"
	FieldJSONPath   = "JSONPath"
	FieldAuthToken  = "authToken"
	FieldDataReturn = "dataReturn"
	FieldDataError  = "dataError"
)

// Kind is the closed set of shapes an entry value can take.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMapping
)

func KindOf(v any) Kind {
	switch v.(type) {
	case *Map, map[string]any:
		return KindMapping
	case []any:
		return KindList
	default:
		return KindScalar
	}
}

// Source is a remote data source definition recognized structurally on a
// mapping. It keeps a handle on the underlying node so the resolver can cache
// results next to the definition.
type Source struct {
	URL   string
	Path  string
	Token string

	node *Map
}

// ClassifySource reports whether a value is a source definition.
func ClassifySource(v any) (*Source, bool) {
	m, ok := v.(*Map)
	if !ok {
		return nil, false
	}

	url, ok := stringField(m, FieldAPIURL)
	if !ok {
		return nil, false
	}
	path, ok := stringField(m, FieldJSONPath)
	if !ok {
		return nil, false
	}

	src := &Source{URL: url, Path: path, node: m}
	if token, ok := stringField(m, FieldAuthToken); ok {
		src.Token = token
	}
	return src, true
}

// DataReturn reports the cached extraction result, if any. The bool is false
// when the source has never resolved successfully.
func (s *Source) DataReturn() (any, bool) {
	return s.node.Get(FieldDataReturn)
}

// SetResult caches a successful extraction and clears any stale error flag.
func (s *Source) SetResult(v any) {
	s.node.Set(FieldDataReturn, v)
	s.node.Delete(FieldDataError)
}

// SetError flags an entry-scoped failure. A previously cached dataReturn is
// deliberately retained.
func (s *Source) SetError(msg string) {
	s.node.Set(FieldDataError, msg)
}

func stringField(m *Map, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}
