// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// CharacterConfig describes the persona presented to the user.
type CharacterConfig struct {
	ConfUID   string `env:"CHARACTER_CONF_UID" envDefault:"default"`
	Name      string `env:"CHARACTER_NAME" envDefault:"Shizuku"`
	Avatar    string `env:"CHARACTER_AVATAR"`
	HumanName string `env:"HUMAN_NAME" envDefault:"Human"`
}

type Config struct {
	Character CharacterConfig `envPrefix:""`

	// WebhookURL is the n8n endpoint that produces replies.
	WebhookURL     string        `env:"N8N_WEBHOOK_URL" envDefault:"http://103.171.85.170/webhook/vtuber"`
	RequestTimeout time.Duration `env:"N8N_REQUEST_TIMEOUT" envDefault:"15s"`

	HistoryDBPath string `env:"CHAT_HISTORY_DB" envDefault:"chat_history.db"`

	TTSVoice string `env:"TTS_VOICE" envDefault:"aura-2-thalia-en"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
