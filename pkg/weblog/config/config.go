package config

import "github.com/caarlos0/env/v11"

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	DBPath    string `env:"WEBLOG_DB_PATH"   envDefault:"weblog.db"`
	Port      string `env:"PORT"             envDefault:"8080"`
	LogLevel  string `env:"WEBLOG_LOG_LEVEL" envDefault:"info"`
	PrettyLog bool   `env:"WEBLOG_PRETTY_LOG" envDefault:"false"`

	// Days after publication during which comments stay open.
	ModerateAfterDays int `env:"COMMENTS_MODERATE_AFTER" envDefault:"30"`

	// Cross-posting of links to the external bookmarking service.
	DefaultLinkPost  bool   `env:"DEFAULT_EXTERNAL_LINK_POST" envDefault:"false"`
	BookmarkAPIURL   string `env:"BOOKMARK_API_URL" envDefault:"https://api.del.icio.us/v1"`
	BookmarkUser     string `env:"BOOKMARK_USER"`
	BookmarkPassword string `env:"BOOKMARK_PASSWORD"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
