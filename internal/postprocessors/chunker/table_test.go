package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func makeTable(name string, rows int) domain.Table {
	t := domain.Table{
		Name:    name,
		Columns: []string{"item", "quantity", "unit_price"},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("item-%03d", i),
			fmt.Sprintf("%d", i%10),
			fmt.Sprintf("%d.50", i),
		})
	}
	return t
}

func TestProcessor_ChunkTable_Empty(t *testing.T) {
	p := New()

	if chunks := p.ChunkTable(domain.Table{}); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty table, got %d", len(chunks))
	}
	if chunks := p.ChunkTable(domain.Table{Columns: []string{"a"}}); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for table with no rows, got %d", len(chunks))
	}
}

func TestProcessor_ChunkTable_Small(t *testing.T) {
	p := New(WithChunkSize(1000))
	table := makeTable("pricing", 10)

	chunks := p.ChunkTable(table)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small table, got %d", len(chunks))
	}

	c := chunks[0]
	if c.Grouped {
		t.Error("small table chunk should not be marked as a row group")
	}
	if c.RowStart != 0 || c.RowEnd != 9 {
		t.Errorf("expected row range 0-9, got %d-%d", c.RowStart, c.RowEnd)
	}
	if !strings.Contains(c.Content, "Table: pricing") {
		t.Error("chunk should carry the table name")
	}
	if !strings.Contains(c.Content, "Columns: item | quantity | unit_price") {
		t.Error("chunk should carry the full column header")
	}
	for i := 0; i < 10; i++ {
		if !strings.Contains(c.Content, fmt.Sprintf("item-%03d", i)) {
			t.Errorf("chunk missing row %d", i)
		}
	}
}

func TestProcessor_ChunkTable_LargeSelfDescribing(t *testing.T) {
	p := New(WithChunkSize(1000))
	table := makeTable("inventory", 200)

	chunks := p.ChunkTable(table)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple row-group chunks for 200 rows, got %d", len(chunks))
	}

	header := "Columns: item | quantity | unit_price"
	for i, c := range chunks {
		if !strings.Contains(c.Content, header) {
			t.Errorf("row-group chunk %d does not restate the column header", i)
		}
		if !c.Grouped {
			t.Errorf("chunk %d of a large table should be a row group", i)
		}
	}

	// Row ranges must tile 0..199 with no gaps or overlap.
	next := 0
	for i, c := range chunks {
		if c.RowStart != next {
			t.Errorf("chunk %d starts at row %d, expected %d", i, c.RowStart, next)
		}
		if c.RowEnd < c.RowStart {
			t.Errorf("chunk %d has inverted row range %d-%d", i, c.RowStart, c.RowEnd)
		}
		next = c.RowEnd + 1
	}
	if next != 200 {
		t.Errorf("row groups end at row %d, expected 200", next)
	}

	// Chunks should approximate the configured size.
	for i, c := range chunks[:len(chunks)-1] {
		if len(c.Content) > 2*p.ChunkSize() {
			t.Errorf("chunk %d is %d chars, far above target %d", i, len(c.Content), p.ChunkSize())
		}
	}
}

func TestProcessor_ChunkTable_UnnamedTable(t *testing.T) {
	p := New()
	table := makeTable("", 3)

	chunks := p.ChunkTable(table)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Content, "Table: ") {
		t.Error("unnamed table should not render a name line")
	}
	if !strings.HasPrefix(chunks[0].Content, "Columns: ") {
		t.Error("unnamed table chunk should start with the column header")
	}
}
