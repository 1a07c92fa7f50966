package database

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Debug    bool
}

func (o Options) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

var (
	db   *gorm.DB
	once sync.Once
)

// Connect opens the process-wide postgres pool. Later calls return the same handle.
func Connect(opts Options) *gorm.DB {
	once.Do(func() {
		logLevel := logger.Warn
		if opts.Debug {
			logLevel = logger.Info
		}

		conn, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		})
		if err != nil {
			zap.L().Fatal("failed to connect database",
				zap.String("host", opts.Host),
				zap.String("name", opts.Name),
				zap.Error(err),
			)
		}

		db = conn
	})

	return db
}
