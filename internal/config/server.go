package config

import "time"

type Server struct {
	// HTTP 서버 설정
	HTTP struct {
		Port         string        `yaml:"port"`
		Timeout      time.Duration `yaml:"timeout"`
		Debug        bool          `yaml:"debug"`
		AllowOrigins []string      `yaml:"allow_origins"`
	} `yaml:"http"`
}
