package hbdemo

// ColumnValue is one qualifier/value pair written into a column family.
type ColumnValue struct {
	Qualifier string
	Value     string
}

// Cell is a single value of a row, addressed by family and qualifier.
type Cell struct {
	Family    string
	Qualifier string
	Value     string
}

// TablePolicy decides what EnsureTable does with a table that already exists.
type TablePolicy int

const (
	// CreateIfAbsent keeps an existing table as long as it declares every
	// requested column family.
	CreateIfAbsent TablePolicy = iota
	// Recreate disables, drops and rebuilds an existing table. All of its
	// rows are lost.
	Recreate
)

func (p TablePolicy) String() string {
	switch p {
	case CreateIfAbsent:
		return "create-if-absent"
	case Recreate:
		return "recreate"
	}
	return "unknown"
}

// GroupByFamily indexes cells as family -> qualifier -> value.
func GroupByFamily(cells []Cell) map[string]map[string]string {
	grouped := map[string]map[string]string{}
	for _, c := range cells {
		fam, ok := grouped[c.Family]
		if !ok {
			fam = map[string]string{}
			grouped[c.Family] = fam
		}
		fam[c.Qualifier] = c.Value
	}
	return grouped
}
