package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the domain configuration.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given YAML file. An empty path selects
// the built-in default configuration.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	if l.path == "" {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	return &config, nil
}

// setDefaults fills in derivable fields.
func (l *Loader) setDefaults(config *Config) {
	for i := range config.Sources {
		src := &config.Sources[i]
		if src.Domain == "" {
			if u, err := url.Parse(src.Feed); err == nil {
				src.Domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
			}
		}
	}
}

// validate validates the configuration.
func (l *Loader) validate(config *Config) error {
	if len(config.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seenNames := make(map[string]bool)
	seenFeeds := make(map[string]bool)
	for i, src := range config.Sources {
		if src.Name == "" {
			return fmt.Errorf("source at index %d: name is required", i)
		}
		if src.Feed == "" {
			return fmt.Errorf("source %q: feed URL is required", src.Name)
		}
		if u, err := url.Parse(src.Feed); err != nil || !u.IsAbs() {
			return fmt.Errorf("source %q: feed URL must be absolute", src.Name)
		}
		if seenNames[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		if seenFeeds[src.Feed] {
			return fmt.Errorf("duplicate feed URL %q", src.Feed)
		}
		seenNames[src.Name] = true
		seenFeeds[src.Feed] = true
	}

	seenSlugs := make(map[string]bool)
	for i, team := range config.Teams {
		if team.Slug == "" {
			return fmt.Errorf("team at index %d: slug is required", i)
		}
		if len(team.Aliases) == 0 {
			return fmt.Errorf("team %q: at least one alias is required", team.Slug)
		}
		if seenSlugs[team.Slug] {
			return fmt.Errorf("duplicate team slug %q", team.Slug)
		}
		seenSlugs[team.Slug] = true
	}

	return nil
}
