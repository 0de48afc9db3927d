package bootstrap

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vesselworks/dashboard/internal/config"
	"github.com/vesselworks/dashboard/internal/infra/blob"
	"github.com/vesselworks/dashboard/internal/infra/cache"
	"github.com/vesselworks/dashboard/internal/infra/db"
	"github.com/vesselworks/dashboard/internal/infra/httpclient"
	"github.com/vesselworks/dashboard/internal/infra/lock"
	"github.com/vesselworks/dashboard/internal/infra/logger"
	"github.com/vesselworks/dashboard/internal/infra/mailer"
	"github.com/vesselworks/dashboard/internal/infra/queue"
	"github.com/vesselworks/dashboard/internal/modules/handler"
	"github.com/vesselworks/dashboard/internal/modules/repo"
	"github.com/vesselworks/dashboard/internal/modules/service"
	"github.com/vesselworks/dashboard/internal/modules/store"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		return cache.New(do.MustInvoke[*config.Config](i)), nil
	})

	// RabbitMQ
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return amqp.Dial(cfg.RabbitMQ.URL)
	})
	do.Provide(inj, func(i *do.Injector) (*queue.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return queue.NewPublisher(
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.ExchangeName.LetterCompose,
			do.MustInvoke[*zap.Logger](i),
		)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		return blob.NewS3(context.Background(), do.MustInvoke[*config.Config](i))
	})

	// collaborators of the letter workflow
	do.Provide(inj, func(i *do.Injector) (service.DocumentGenerator, error) {
		return httpclient.NewDocGenClient(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ComposeLauncher, error) {
		return mailer.NewLauncher(do.MustInvoke[*queue.Publisher](i), do.MustInvoke[*config.Config](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.Locker, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Lock.Backend == "local" {
			return lock.NewLocal(), nil
		}
		ttl := time.Duration(cfg.Lock.TTLSec) * time.Second
		return lock.NewRedis(do.MustInvoke[*redis.Client](i), ttl), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.EquipmentRepo, error) {
		return repo.NewEquipmentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// in-memory project lists, one per session scope
	do.Provide(inj, func(i *do.Injector) (*store.Registry, error) {
		return store.NewRegistry(), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.EquipmentRepo](i),
			do.MustInvoke[*store.Registry](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.LetterService, error) {
		return service.NewLetterService(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.DocumentGenerator](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[service.ComposeLauncher](i),
			do.MustInvoke[service.Locker](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ReportService, error) {
		return service.NewReportService(do.MustInvoke[service.ProjectService](i)), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.ReportService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.LetterHandler, error) {
		return handler.NewLetterHandler(do.MustInvoke[service.LetterService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ReportHandler, error) {
		return handler.NewReportHandler(do.MustInvoke[service.ReportService](i)), nil
	})

	return inj
}
