package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadDesignFile reads a JSON design file.
func ReadDesignFile(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDesign(f)
}

// ReadDesign decodes a JSON design from an io.Reader.
func ReadDesign(r io.Reader) (*Design, error) {
	var d Design
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	return &d, nil
}

// ReadCatalogFile reads a JSON catalog file.
func ReadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// ReadCatalog decodes a JSON catalog from an io.Reader.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// WriteDesignFile writes a design as indented JSON.
// The file is created with 0644 permissions.
func WriteDesignFile(d *Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDesign(d, f)
}

// WriteDesign writes a design as indented JSON to an io.Writer.
func WriteDesign(d *Design, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	return nil
}
