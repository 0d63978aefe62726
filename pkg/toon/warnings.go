package toon

import "fmt"

// Warning is a non-fatal anomaly reported through a host-provided sink
// contract: {category, message}.
type Warning struct {
	Category string // "n_mismatch", "ragged_rows", or "duplicate_key"
	Message  string
}

func (w Warning) String() string { return fmt.Sprintf("[%s] %s", w.Category, w.Message) }

// warningCollector accumulates warnings for delivery in a single batch at
// the end of an operation, while also forwarding them live to an
// optional sink (used by the streaming entry points, which cannot wait
// until "the end" of an unbounded stream).
type warningCollector struct {
	sink func(Warning)
	all  []Warning
}

func newWarningCollector(sink func(Warning)) *warningCollector {
	return &warningCollector{sink: sink}
}

func (c *warningCollector) add(w Warning) {
	c.all = append(c.all, w)
	if c.sink != nil {
		c.sink(w)
	}
}

func (c *warningCollector) list() []Warning { return c.all }
