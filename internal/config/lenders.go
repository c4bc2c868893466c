package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// lenderFile is the on-disk shape of the lending-company reference list.
type lenderFile struct {
	Lenders []string `yaml:"lenders"`
}

// LoadLenders reads the known lending-company name list from a YAML file.
// The list is loaded once at process start and shared read-only with every
// worker; list order is significant because the first matching name wins
// during memo extraction.
func LoadLenders(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadLenders: %w", err)
	}

	var f lenderFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("config.LoadLenders: parsing %s: %w", path, err)
	}
	if len(f.Lenders) == 0 {
		return nil, fmt.Errorf("config.LoadLenders: %s lists no lenders", path)
	}
	return f.Lenders, nil
}
