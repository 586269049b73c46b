package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	ConfigFile   string
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent    string
	FetchTimeout int
	Debug        bool
	Version      string
}
