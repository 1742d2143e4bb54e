//go:build integration

package integration

import (
	"github.com/kelseyhightower/envconfig"
)

// Config locates the Mailhog instance under test.
type Config struct {
	URL      string `envconfig:"MAILHOG_URL" default:"http://localhost:8025"`
	SMTPAddr string `envconfig:"MAILHOG_SMTP_ADDR" default:"localhost:1025"`
	// MAILHOG_TRACE dumps every HTTP exchange to the test log
	Trace bool `envconfig:"MAILHOG_TRACE" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
