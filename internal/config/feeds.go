package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// feedsFile is the shape of the optional FEEDS_FILE YAML document:
//
//	sources:
//	  - id: nyt
//	    url: https://example.com/us.csv
//	  - id: jh
//	    url: https://example.com/combined.csv
type feedsFile struct {
	Sources []FeedSource `yaml:"sources"`
}

// loadFeedsFile reads the feed source list from a YAML file, replacing the
// env-var defined sources entirely.
func loadFeedsFile(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var doc feedsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("feeds file %s declares no sources", path)
	}
	return doc.Sources, nil
}
