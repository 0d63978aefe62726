package toon

// Table is the finalised result of TabularParser.Finalize: a set of
// typed, NA-aware columns sharing a common row count.
type Table struct {
	Columns  []*Column
	RowCount int
}

// Column looks up a column by name, returning ok=false if absent.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FieldNames returns the table's column names in declared order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
