package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env            string `env:"ENVIRONMENT"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"8080"`
	BasicAuthCreds string `env:"BASIC_AUTH_CREDS"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"padelspot.sqlite"`

	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM" envDefault:"contact@padelspot.fr"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	Provider struct {
		BaseURL     string `env:"PROVIDER_API_BASE" envDefault:"https://api-v3.doinsport.club"`
		ActivityID  string `env:"PROVIDER_PADEL_ACTIVITY_ID" envDefault:"ce8c306e-224a-4f24-aa9d-6500580924dc"`
		TimeoutSecs int    `env:"PROVIDER_TIMEOUT_SECS" envDefault:"30"`
	}

	Watcher struct {
		TickSpec             string `env:"WATCHER_TICK_SPEC" envDefault:"@every 1m"`
		Concurrency          int    `env:"WATCHER_CONCURRENCY" envDefault:"5"`
		DaysAhead            int    `env:"WATCHER_DAYS_AHEAD" envDefault:"14"`
		FailureFlagThreshold int    `env:"WATCHER_FAILURE_FLAG_THRESHOLD" envDefault:"5"`
		LedgerRetentionDays  int    `env:"WATCHER_LEDGER_RETENTION_DAYS" envDefault:"30"`
		BaselineScan         bool   `env:"WATCHER_BASELINE_SCAN" envDefault:"false"`
	}

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	cfg := &Config{log: log}
	env.Parse(cfg)

	creds, err := cfg.parseCreds()
	if err != nil {
		if cfg.Env != "production" {
			cfg.log.Sugar().Infof("%s (credentials will be set to default in development env)", err)
			creds = map[string]string{"admin": "password"}
		} else {
			cfg.log.Sugar().Panic(err)
		}
	}
	cfg.creds = creds

	return cfg
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, errors.New("BASIC_AUTH_CREDS envvar must be populated")
	}

	creds := strings.Split(cfg.BasicAuthCreds, ",")
	if len(creds) == 0 {
		return nil, errors.New("BASIC_AUTH_CREDS envvar should be filled with comma-separated values -- user1:pass1,user2:pass2")
	}

	result := make(map[string]string)
	for _, cred := range creds {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}
