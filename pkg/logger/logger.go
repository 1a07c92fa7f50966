package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger and installs it as the zap global.
// Development gets the human-readable console encoder, everything else JSON.
func New(appEnv string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	switch appEnv {
	case "development", "test":
		log, err = zap.NewDevelopment()
	default:
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	log = log.With(zap.String("app", "newsaddiction"))
	zap.ReplaceGlobals(log)
	return log, nil
}
