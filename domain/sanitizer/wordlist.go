package sanitizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WordList is the on-disk format of a profanity list:
//
//	include_defaults: true
//	words:
//	  - example
type WordList struct {
	IncludeDefaults bool     `yaml:"include_defaults"`
	Words           []string `yaml:"words"`
}

// ParseWordList decodes a YAML word list and returns the effective terms
func ParseWordList(data []byte) ([]string, error) {
	var list WordList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse word list: %w", err)
	}

	words := make([]string, 0, len(list.Words)+len(DefaultWords))
	if list.IncludeDefaults {
		words = append(words, DefaultWords...)
	}
	words = append(words, list.Words...)
	return words, nil
}

// LoadWordList reads a YAML word list from path
func LoadWordList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return ParseWordList(data)
}

// NewFromFile creates a sanitizer from a YAML word list. An empty path yields
// the default sanitizer.
func NewFromFile(path string) (*Sanitizer, error) {
	if path == "" {
		return NewDefault(), nil
	}
	words, err := LoadWordList(path)
	if err != nil {
		return nil, err
	}
	return New(words), nil
}
