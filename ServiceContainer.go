package main

import (
	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"
	"gridSheet/contracts"
	"log/slog"
	"path/filepath"
	"time"
)

// DependencyIndexFileName is the bbolt file kept inside the sheets directory
// when sheets are stored as csv files
const DependencyIndexFileName = "dependencies.db"

type ServiceContainer struct {
	Database           *bbolt.DB
	SheetStorage       contracts.SheetStorage
	ApiController      contracts.ApiController
	SheetRepository    contracts.SheetRepository
	ExpressionExecutor contracts.ExpressionExecutor
	WebhookDispatcher  contracts.WebhookDispatcher
	Router             *gin.Engine
	Logger             *slog.Logger
}

func BuildServiceContainer(config *Config, logger *slog.Logger) (container ServiceContainer, err error) {
	container.Logger = logger

	switch config.Storage.Driver {
	case StorageDriverCsv:
		container.SheetStorage, err = NewCsvSheetStorage(config.Storage.Path, logger)
		if err == nil {
			container.Database, err = openDatabase(filepath.Join(config.Storage.Path, DependencyIndexFileName))
		}
	default:
		container.Database, err = openDatabase(config.Storage.Path)
		if err == nil {
			container.SheetStorage = NewBoltSheetStorage(container.Database, NewCellBinarySerializer(), logger)
		}
	}
	if err != nil {
		return
	}

	container.ExpressionExecutor = NewExpressionExecutor()
	container.WebhookDispatcher = NewWebhookDispatcher(config.Webhook.Workers, config.Webhook.QueueSize, config.Webhook.Timeout, logger)
	container.SheetRepository = NewSheetRepository(
		container.Database, container.SheetStorage, container.ExpressionExecutor,
		container.WebhookDispatcher, config.Sheet, logger,
	)
	container.ApiController = NewApiController(container.SheetRepository, container.WebhookDispatcher)

	container.Router = SetupRouter(container.ApiController, logger)

	return
}

func openDatabase(path string) (*bbolt.DB, error) {
	return bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
}
