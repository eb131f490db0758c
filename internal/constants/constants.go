// Package constants holds the shared configuration table of fringe rates
// and category colors, and the lookups the costing engine performs on it.
package constants

import (
	"github.com/Simplici0/bidcost/internal/numeric"
)

// Known constant types.
const (
	TypeFringe        = "fringe"
	TypeCategoryColor = "categoryColor"
)

// Constant is one row of the configuration table. Value is kept as the
// raw string an administrator typed ("$8.50", "12.25"); it is coerced on
// read.
type Constant struct {
	ID          string `json:"id" yaml:"id,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Value       string `json:"value" yaml:"value"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Table is the flat constants table fetched once per editing session and
// passed by parameter into every calculation.
type Table []Constant

// Find returns the first constant whose description equals description.
func (t Table) Find(description string) (Constant, bool) {
	for _, c := range t {
		if c.Description == description {
			return c, true
		}
	}
	return Constant{}, false
}

// OfType returns the constants of the given type, in table order.
func (t Table) OfType(typ string) Table {
	var out Table
	for _, c := range t {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// FringeRate resolves a named fringe benefit rate. An empty name, a nil
// table, an unknown name or an unparsable value all resolve to 0.
func FringeRate(name string, table Table) float64 {
	if name == "" || table == nil {
		return 0
	}
	c, ok := table.Find(name)
	if !ok {
		return 0
	}
	return numeric.ToNumber(c.Value)
}
