package ast

// Extra is trivia kept alongside the tree for exact reprinting. Extras are
// not nodes: walking the tree never visits them.
type Extra interface {
	Anchor() Anchor
	extra()
}

// BlankLines is a run of Count fully blank lines.
type BlankLines struct {
	Count int
	Loc   Anchor
}

// Comment is a line or block comment. StartsLine and EndsLine report
// whether a significant token shares the comment's line before or after it.
type Comment struct {
	Text       string
	StartsLine bool
	EndsLine   bool
	Loc        Anchor
}

func (b *BlankLines) Anchor() Anchor { return b.Loc }
func (b *BlankLines) extra()         {}
func (c *Comment) Anchor() Anchor    { return c.Loc }
func (c *Comment) extra()            {}

// ExtrasMap associates trivia with nodes. Before holds trivia written
// ahead of a node; Within holds trivia written before a node's closing
// delimiter, or at the end of a File. It is filled once while parsing and
// is read-only afterwards.
type ExtrasMap struct {
	before map[Node][]Extra
	within map[Node][]Extra
}

// NewExtrasMap creates an empty map.
func NewExtrasMap() *ExtrasMap {
	return &ExtrasMap{
		before: make(map[Node][]Extra),
		within: make(map[Node][]Extra),
	}
}

// Before returns the trivia preceding n.
func (m *ExtrasMap) Before(n Node) []Extra {
	if m == nil {
		return nil
	}
	return m.before[n]
}

// Within returns the trivia inside n after its last child.
func (m *ExtrasMap) Within(n Node) []Extra {
	if m == nil {
		return nil
	}
	return m.within[n]
}

// AddBefore appends trivia ahead of n.
func (m *ExtrasMap) AddBefore(n Node, extras ...Extra) {
	m.before[n] = append(m.before[n], extras...)
}

// AddWithin appends trivia inside n.
func (m *ExtrasMap) AddWithin(n Node, extras ...Extra) {
	m.within[n] = append(m.within[n], extras...)
}

// Len returns the total number of extras recorded.
func (m *ExtrasMap) Len() int {
	if m == nil {
		return 0
	}
	total := 0
	for _, e := range m.before {
		total += len(e)
	}
	for _, e := range m.within {
		total += len(e)
	}
	return total
}
