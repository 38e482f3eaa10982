package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archscape/pkg/workspace"
)

// WriteJSON encodes the workspace document as indented JSON and writes it
// to w.
func WriteJSON(ws *workspace.Workspace, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromWorkspace(ws)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the indented JSON document for ws.
func MarshalJSON(ws *workspace.Workspace) ([]byte, error) {
	data, err := json.MarshalIndent(FromWorkspace(ws), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportJSON writes the workspace document to a JSON file at path.
func ExportJSON(ws *workspace.Workspace, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(ws, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
