package main

import (
	"net/http"
	"os"
	"time"

	"github.com/manidelavega-ai/padelspot-backend/app"
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib"
	"github.com/manidelavega-ai/padelspot-backend/lib/ledger"
	"github.com/manidelavega-ai/padelspot-backend/lib/source"
	"github.com/manidelavega-ai/padelspot-backend/lib/watcher"
	"github.com/manidelavega-ai/padelspot-backend/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(source.NewClient),
		fx.Provide(ledger.NewLedger),
		fx.Provide(watcher.NewWatcher),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*watcher.Watcher) {}),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
