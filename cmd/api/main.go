package main

import (
	"crypto/rand"
	"log"
	"math/big"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// UUID先頭セグメントの大文字8桁（例: 3F2A9B1C）
type uuidTrackingNumberGenerator struct{}

func (g *uuidTrackingNumberGenerator) NewTrackingNumber() string {
	id := uuid.NewString()
	return strings.ToUpper(strings.SplitN(id, "-", 2)[0])
}

// 英数12桁のランダムな支払いID
type randomPaymentIDGenerator struct{}

const paymentIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (g *randomPaymentIDGenerator) NewPaymentID() string {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(paymentIDChars))))
		if err != nil {
			panic(err)
		}
		b.WriteByte(paymentIDChars[n.Int64()])
	}
	return b.String()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//初期データ（管理者・カタログ）。冪等なので毎回呼んでよい
	if cfg.SeedData {
		if err := db.Seed(gormDB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal(err)
		}
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	tracking := &uuidTrackingNumberGenerator{}
	paymentIDGen := &randomPaymentIDGenerator{}
	clock := &realClock{}
	orderValidator := validator.NewOrderValidator()

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, orderValidator, tracking, clock)
	orderUC := usecase.NewOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, paymentIDGen, clock)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Payment:       handler.NewPaymentHandler(paymentUC),
		Order:         handler.NewOrderHandler(orderUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		AdminCategory: handler.NewAdminCategoryHandler(categoryUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		AdminAuditLog: handler.NewAdminAuditLogHandler(auditLogUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, userRepo, handlers); err != nil {
		log.Fatal(err)
	}
}
