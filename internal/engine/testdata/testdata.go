package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a labeled trace line for classification validation.
// ExpectedRule is empty for lines no rule should match; ExpectedKind is empty
// for lines that match but emit no event.
type CorpusEntry struct {
	Raw          string `json:"raw"`
	Dialect      string `json:"dialect"`
	ExpectedRule string `json:"expected_rule"`
	ExpectedKind string `json:"expected_kind"`
	Description  string `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}
