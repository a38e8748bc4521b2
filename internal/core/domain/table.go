package domain

// Table is an extracted tabular dataset awaiting chunking.
// Document-format parsers (XLSX, CSV extraction) produce Tables;
// this engine only consumes them.
type Table struct {
	// Name is the sheet or table name.
	Name string

	// Columns is the ordered column header list.
	Columns []string

	// Rows holds cell values, one slice per row, aligned with Columns.
	Rows [][]string
}

// Empty reports whether the table has no rows or no columns.
func (t Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}
