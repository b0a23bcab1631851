package store

import (
	"encoding/json"
	"time"

	"github.com/promptml/promptml/internal/markup"
)

// DocumentRecord is a stored prompt document.
type DocumentRecord struct {
	ID          string
	Name        string
	Blocks      []markup.Block
	IndentWidth int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TemplateRecord is a stored, named block list used to seed new
// documents.
type TemplateRecord struct {
	ID        string
	Name      string
	Blocks    []markup.Block
	CreatedAt time.Time
}

// History kinds.
const (
	HistoryRender = "render"
	HistoryImport = "import"
)

// HistoryEntry records one render or import operation.
type HistoryEntry struct {
	ID           int64
	Kind         string // HistoryRender | HistoryImport
	DocumentName string
	Detail       string
	CreatedAt    time.Time
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func blocksToJSON(blocks []markup.Block) string {
	data, err := json.Marshal(blocks)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func blocksFromJSON(data string) []markup.Block {
	if data == "" || data == "null" {
		return []markup.Block{}
	}
	var blocks []markup.Block
	if err := json.Unmarshal([]byte(data), &blocks); err != nil || blocks == nil {
		return []markup.Block{}
	}
	return blocks
}
