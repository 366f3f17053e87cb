package utils

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment. A .env file in
// the working directory is loaded first when present.
type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	DataFile    string `env:"DATA_FILE" envDefault:"data/bank.json"`
	DatabaseURL string `env:"DATABASE_URL"`
	Port        string `env:"PORT" envDefault:"8080"`
	GuildID     string `env:"GUILD_ID"`
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
