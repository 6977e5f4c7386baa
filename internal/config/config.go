package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Server      Server
	ESPN        ESPN
	Assets      Assets
	FantasyPros FantasyPros
	Database    Database
	TelegramBot TelegramBot
	Digest      Digest
	Log         Log
}

type Server struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// ESPN holds the server-side fallback credentials. Requests may override both
// via headers, cookies or query parameters.
type ESPN struct {
	SWID     string `envconfig:"ESPN_SWID"`
	ESPNS2   string `envconfig:"ESPN_S2"`
	LeagueID string `envconfig:"ESPN_LEAGUE_ID"`
	Season   int    `envconfig:"ESPN_SEASON"`
}

// Assets points at the static origin that hosts the weekly ranking CSVs and
// the defense-vs-position map.
type Assets struct {
	Origin string `envconfig:"ASSETS_ORIGIN" required:"true"`
	FPBase string `envconfig:"FP_BASE" default:"fp"`
}

type FantasyPros struct {
	APIKey string `envconfig:"FANTASYPROS_API_KEY"`
}

type Database struct {
	URL string `envconfig:"DATABASE_URL"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Digest configures the scheduled free-agent summary. Disabled unless both
// the schedule flag and the Telegram settings are present.
type Digest struct {
	Enabled  bool    `envconfig:"DIGEST_ENABLED" default:"false"`
	Cron     string  `envconfig:"DIGEST_CRON" default:"30 7 * * 3"`
	LeagueID string  `envconfig:"DIGEST_LEAGUE_ID"`
	Season   int     `envconfig:"DIGEST_SEASON"`
	TopN     int     `envconfig:"DIGEST_TOP_N" default:"10"`
	MinProj  float64 `envconfig:"DIGEST_MIN_PROJ" default:"1"`
	Location string  `envconfig:"DIGEST_LOCATION" default:"America/Chicago"`
}

type Log struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
