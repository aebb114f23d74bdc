package extract

// Metadata is an insertion-ordered set of frontmatter fields. Values are
// string, int, []string or *Pairs.
type Metadata struct {
	keys   []string
	values map[string]any
}

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (m *Metadata) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// String returns the value under key when it is a string.
func (m *Metadata) String(key string) string {
	s, _ := m.values[key].(string)
	return s
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len reports the number of fields.
func (m *Metadata) Len() int { return len(m.keys) }

// Pairs is an insertion-ordered string map used for the openGraph and
// twitter blocks.
type Pairs struct {
	keys   []string
	values map[string]string
}

func NewPairs() *Pairs {
	return &Pairs{values: make(map[string]string)}
}

// Set stores value under key; later values win but keep the first position.
func (p *Pairs) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Pairs) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Pairs) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Pairs) Len() int { return len(p.keys) }
