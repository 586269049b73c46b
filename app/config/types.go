package config

// Config is the full domain configuration: the feed subscriptions to ingest
// and the team signal sets used for tagging and relevance scoring. Loaded
// once at startup and treated as immutable for the lifetime of the process.
type Config struct {
	Sources []Source `yaml:"sources"`
	Teams   []Team   `yaml:"teams"`
}

// Source is a named feed subscription.
type Source struct {
	Name   string `yaml:"name"`
	Feed   string `yaml:"feed"`
	Site   string `yaml:"site"`
	Domain string `yaml:"domain"`
}

// Team holds the keyword and domain signals for one followed team.
type Team struct {
	Slug    string   `yaml:"slug"`
	Aliases []string `yaml:"aliases"` // club names and abbreviations
	People  []string `yaml:"people"`  // players, managers, grounds
	Exclude []string `yaml:"exclude"` // rival clubs and roundup markers
	Domains []string `yaml:"domains"` // team-focused hosts that get a prior
}

// IncludeTerms is the flat list used by the about-team gate: any alias or
// named person counts as a positive signal.
func (t Team) IncludeTerms() []string {
	terms := make([]string, 0, len(t.Aliases)+len(t.People))
	terms = append(terms, t.Aliases...)
	terms = append(terms, t.People...)
	return terms
}
