// Package reader loads and structurally validates the compiled schema
// artifact at provisioning time.
//
// Validation is all-or-nothing at the top level: a missing artifact, a
// JSON parse failure, or an absent required section rejects the document
// wholesale. Deeper problems (a pod without a name, a content item
// without a title) are deliberately NOT checked here; the consuming
// provisioner skips those entries with a logged warning so one bad entry
// cannot abort a whole run.
package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/stratacms/internal/domain/schema"
)

// Sentinel errors, matched with errors.Is by the orchestrator.
var (
	// ErrNotFound means the artifact file is absent.
	ErrNotFound = errors.New("schema artifact not found")
	// ErrParse means the artifact exists but is not valid JSON.
	ErrParse = errors.New("schema artifact malformed")
	// ErrInvalid means the artifact parsed but a required top-level
	// section is missing.
	ErrInvalid = errors.New("schema artifact invalid")
)

// Read loads the artifact at path, parses it, and verifies the required
// top-level sections are present. There is no partial or degraded read
// mode.
func Read(path string) (*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read schema artifact: %w", err)
	}

	// Key presence matters, not zero values, so probe the raw object
	// before decoding into the typed document.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for _, section := range schema.RequiredSections {
		if _, ok := raw[section]; !ok {
			return nil, fmt.Errorf("%w: missing required section %q", ErrInvalid, section)
		}
	}

	var doc schema.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &doc, nil
}
