package config

import (
	"time"

	"github.com/AX07/cryptoax07-visual-generator/pkg/config"
)

// Gemini 생성형 서비스 설정
type Gemini struct {
	APIKey         string        `yaml:"api_key"`
	TextModel      string        `yaml:"text_model"`
	ImageModel     string        `yaml:"image_model"`
	SearchModel    string        `yaml:"search_model"`
	ImageTimeout   time.Duration `yaml:"image_timeout"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	DefaultRetries int           `yaml:"default_retries"`
	RequestsPerMin int           `yaml:"requests_per_min"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
}

func loadGemini(cfg config.Config) Gemini {
	return Gemini{
		APIKey:         cfg.GetString("gemini.api_key"),
		TextModel:      cfg.GetString("gemini.text_model"),
		ImageModel:     cfg.GetString("gemini.image_model"),
		SearchModel:    cfg.GetString("gemini.search_model"),
		ImageTimeout:   cfg.GetDuration("gemini.image_timeout"),
		RetryBaseDelay: cfg.GetDuration("gemini.retry_base_delay"),
		DefaultRetries: cfg.GetInt("gemini.default_retries"),
		RequestsPerMin: cfg.GetInt("gemini.requests_per_min"),
		HTTPTimeout:    cfg.GetDuration("gemini.http_timeout"),
	}
}
