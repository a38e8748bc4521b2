package chunker

import (
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// SmallTableRowLimit is the row count below which a table is rendered as a
// single chunk carrying the full header and all rows.
const SmallTableRowLimit = 50

// TableChunk is one rendered piece of a tabular dataset.
// Every chunk restates the column header so it is self-describing when
// retrieved in isolation.
type TableChunk struct {
	// Content is the formatted tabular rendering.
	Content string

	// RowStart and RowEnd are the inclusive row range covered.
	RowStart int
	RowEnd   int

	// Grouped is true when the chunk is a row-group of a large table
	// rather than a whole-table rendering.
	Grouped bool
}

// ChunkTable splits a tabular dataset into self-describing chunks.
//
// Small tables (fewer than SmallTableRowLimit rows) become a single chunk
// with complete column context. Large tables are split into row groups
// sized to approximate the configured chunk size, and every group restates
// the column header.
//
// An empty table produces an empty sequence with a logged skip, not an
// error; malformed extractions are a caller problem, not a batch failure.
func (p *Processor) ChunkTable(table domain.Table) []TableChunk {
	if table.Empty() {
		logger.Debug("Skipping empty table %q", table.Name)
		return nil
	}

	header := renderHeader(table)
	rows := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = renderRow(row)
	}

	if len(rows) < SmallTableRowLimit {
		content := header + strings.Join(rows, "\n")
		return []TableChunk{{
			Content:  content,
			RowStart: 0,
			RowEnd:   len(rows) - 1,
		}}
	}

	// Row budget approximates chunkSize characters per chunk.
	totalChars := 0
	for _, r := range rows {
		totalChars += len(r) + 1
	}
	avgCharsPerRow := totalChars / len(rows)
	if avgCharsPerRow < 1 {
		avgCharsPerRow = 1
	}
	rowBudget := p.chunkSize / avgCharsPerRow
	if rowBudget < 1 {
		rowBudget = 1
	}

	chunks := make([]TableChunk, 0, len(rows)/rowBudget+1)
	for start := 0; start < len(rows); start += rowBudget {
		end := start + rowBudget
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, TableChunk{
			Content:  header + strings.Join(rows[start:end], "\n"),
			RowStart: start,
			RowEnd:   end - 1,
			Grouped:  true,
		})
	}
	return chunks
}

// renderHeader formats the table name and column list that prefixes every
// tabular chunk.
func renderHeader(table domain.Table) string {
	var b strings.Builder
	if table.Name != "" {
		b.WriteString("Table: ")
		b.WriteString(table.Name)
		b.WriteString("\n")
	}
	b.WriteString("Columns: ")
	b.WriteString(strings.Join(table.Columns, " | "))
	b.WriteString("\n")
	return b.String()
}

// renderRow formats one row as pipe-separated cell values.
func renderRow(cells []string) string {
	return strings.Join(cells, " | ")
}
