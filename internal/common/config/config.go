package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	API struct {
		BaseURL string `env:"MARKETXI_API_URL" envDefault:"http://localhost:8000"`
	}

	Session struct {
		// Path of the token file. Empty means <home>/.marketxi/token.
		TokenFile string `env:"MARKETXI_TOKEN_FILE"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine; variables may be set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	if cfg.Session.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}
		cfg.Session.TokenFile = filepath.Join(home, ".marketxi", "token")
	}

	return cfg
}
