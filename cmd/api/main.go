package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLogEntry{},
		&model.Profile{},
		&model.StoreSettings{},
		&model.AuditLog{},
	); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	settingsRepo := infraRepo.NewStoreSettingsGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	validate := validator.New()

	//Usecase生成
	accessUC := usecase.NewAccessUsecase(profileRepo)
	catalogUC := usecase.NewCatalogUsecase(productRepo, categoryRepo, txManager, validate)
	inventoryUC := usecase.NewInventoryUsecase(txManager, log)
	orderUC := usecase.NewOrderUsecase(txManager, log)
	settingsUC := usecase.NewSettingsUsecase(settingsRepo, validate)
	profileUC := usecase.NewProfileUsecase(txManager)
	dashboardUC := usecase.NewDashboardUsecase(productRepo, orderRepo)

	//Handler生成
	handlers := server.Handlers{
		Products:   handler.NewAdminProductHandler(catalogUC, inventoryUC),
		Categories: handler.NewAdminCategoryHandler(catalogUC),
		Inventory:  handler.NewAdminInventoryHandler(inventoryUC),
		Orders:     handler.NewAdminOrderHandler(orderUC),
		Settings:   handler.NewAdminSettingsHandler(settingsUC),
		Profiles:   handler.NewAdminProfileHandler(profileUC),
		Dashboard:  handler.NewAdminDashboardHandler(dashboardUC),
	}

	e := server.New(cfg, accessUC, handlers)

	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(e, addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
