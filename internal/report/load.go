package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and parses a Google Benchmark JSON report from disk.
func Load(path string) (*Report, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	rep, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	return rep, data, nil
}

// Parse decodes raw report bytes. A missing context or benchmark list is
// tolerated (zero value / empty slice); malformed JSON is not.
func Parse(data []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark report: %w", err)
	}
	if rep.Benchmarks == nil {
		rep.Benchmarks = []Entry{}
	}
	return &rep, nil
}
