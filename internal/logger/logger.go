package logger

import (
	"context"

	"estate-crm/internal/config"
	"estate-crm/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the console logger and tees it into the Mongo log writer.
// The writer is drained on shutdown, before the database disconnects.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Function name comes from the caller
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(mongodb, cfg)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return dbWriter.Close(ctx)
		},
	})

	return zap.New(finalCore, zap.AddCaller()), nil
}
