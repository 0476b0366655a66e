// Package compiler turns an authored schema.yaml into the compiled JSON
// artifact the provisioning pipeline consumes.
//
// Compilation is a pure transform: the same source always yields a
// byte-identical artifact (struct field order is fixed and encoding/json
// sorts map keys). A failed compile exits non-zero and never overwrites a
// previously good artifact; the output is written to a temp file in the
// destination directory and renamed into place only on success.
package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dalemusser/stratacms/internal/domain/schema"
)

// LoadSource reads and decodes an authored schema source file. Unknown
// keys in the source are errors: the authoring format is strongly typed,
// so a typo'd section name should fail the build, not silently vanish.
func LoadSource(path string) (*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema source: %w", err)
	}

	// Presence check first: required sections must exist as keys, not
	// merely decode to zero values.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema source: %w", err)
	}
	for _, section := range schema.RequiredSections {
		if _, ok := raw[section]; !ok {
			return nil, fmt.Errorf("schema source missing required section %q", section)
		}
	}

	var doc schema.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema source: %w", err)
	}
	return &doc, nil
}

// Marshal renders a document as the compiled artifact bytes.
func Marshal(doc *schema.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schema artifact: %w", err)
	}
	return append(out, '\n'), nil
}

// Compile loads the source at srcPath and writes the compiled artifact to
// outPath atomically. On any error the existing artifact, if one exists,
// is left untouched.
func Compile(srcPath, outPath string) error {
	doc, err := LoadSource(srcPath)
	if err != nil {
		return err
	}

	out, err := Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".schema-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}
