// Package document defines the prompt document owned by the calling
// surfaces (CLI, web API) and the pure list operations used to edit
// its block sequence.
package document

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptml/promptml/internal/markup"
)

// Document is an ordered block list plus its serialization options.
// Block order is the only ordering signal.
type Document struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Blocks      []markup.Block `json:"blocks"`
	IndentWidth int            `json:"indent_width"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// New creates an empty named document with a fresh ID and the default
// indent width.
func New(name string) Document {
	now := time.Now().UTC()
	return Document{
		ID:          uuid.New().String(),
		Name:        name,
		Blocks:      []markup.Block{},
		IndentWidth: markup.DefaultIndentWidth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Render serializes the document's blocks with its indent width.
func (d Document) Render() string {
	return markup.Serialize(d.Blocks, markup.Options{IndentWidth: d.IndentWidth})
}

// Decode reads a document from its JSON form. A document without an
// explicit indent_width gets the default.
func Decode(data []byte) (Document, error) {
	var raw struct {
		ID          string         `json:"id"`
		Name        string         `json:"name"`
		Blocks      []markup.Block `json:"blocks"`
		IndentWidth *int           `json:"indent_width"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	d := Document{
		ID:          raw.ID,
		Name:        strings.TrimSpace(raw.Name),
		Blocks:      raw.Blocks,
		IndentWidth: markup.DefaultIndentWidth,
	}
	if raw.IndentWidth != nil {
		d.IndentWidth = markup.ClampIndentWidth(*raw.IndentWidth)
	}
	if d.Blocks == nil {
		d.Blocks = []markup.Block{}
	}
	return d, nil
}

// Encode renders the document as indented JSON.
func Encode(d Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
