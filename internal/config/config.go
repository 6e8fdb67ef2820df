package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

// Config is the process configuration, parsed from the environment.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// StoragePath is the guild settings JSON file; LedgerPath is the pebble
	// directory holding case records.
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/guilds.json"`
	LedgerPath  string `env:"LEDGER_PATH" envDefault:"data/ledger"`

	// InitSlashCommands controls whether slash commands are (re)registered
	// with Discord on startup.
	InitSlashCommands bool `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	// Optional HTTP status site.
	SiteEnabled bool `env:"SITE_ENABLED" envDefault:"false"`
	SitePort    int  `env:"PORT" envDefault:"3000"`
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
