package app

import (
	"os"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/stationeryhq/stationery-server/config"
	"github.com/stationeryhq/stationery-server/internal/assets"
	"github.com/stationeryhq/stationery-server/internal/auth"
	"github.com/stationeryhq/stationery-server/internal/catalog"
	"github.com/stationeryhq/stationery-server/internal/domain"
)

// Application wires the persistent store, the asset store and the domain
// services together and owns their lifecycle.
type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	assets    *assets.Store
	creds     *auth.Credentials
	tokens    *auth.TokenIssuer
	catalog   *catalog.Service
}

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }

func (a *Application) DB() *gorm.DB { return a.gormDB }

func (a *Application) Assets() *assets.Store { return a.assets }

func (a *Application) Credentials() *auth.Credentials { return a.creds }

func (a *Application) Tokens() *auth.TokenIssuer { return a.tokens }

func (a *Application) Catalog() *catalog.Service { return a.catalog }

// Init builds the logger, connects the database, migrates the schema,
// prepares the upload directory and starts background jobs. Store or
// filesystem failures here are fatal to the caller by design.
func (a *Application) Init() error {
	a.initLogger()

	db, err := getDatabase(a.appConfig.Database)
	if err != nil {
		return errors.Wrap(err, "database connection failed")
	}
	a.gormDB = db
	zap.S().Infof("database connection successful, type: %s", a.appConfig.Database.Type)

	if err := a.MigrateDB(); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	store, err := assets.NewStore(a.appConfig.UploadDir())
	if err != nil {
		return err
	}
	a.assets = store
	zap.S().Infof("upload directory ready: %s", store.Dir())

	repo := catalog.NewGormProductRepository(db)
	a.creds = auth.NewCredentials(db)
	a.tokens = auth.NewTokenIssuer(a.creds, a.appConfig.Web.JwtSecret)
	a.catalog = catalog.NewService(repo, store)

	a.initJobs()
	return nil
}

func (a *Application) MigrateDB() error {
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

// Release stops background jobs and flushes the logger.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = zap.L().Sync()
}

func (a *Application) initLogger() {
	cfg := a.appConfig.Logger

	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.FileEnable {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(fileLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}
