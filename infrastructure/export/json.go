package export

import (
	"encoding/json"
	"fmt"
	"os"

	"test_capture/domain/entities"
)

// writeJSON serializes the canonical document. This file is the
// lossless machine-readable form; every other format is a view of it.
func writeJSON(doc *entities.TestCaseDocument, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal test case: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a previously exported document. Used by the round
// trip checks and by anyone post-processing exports.
func ReadJSON(path string) (*entities.TestCaseDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc entities.TestCaseDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
