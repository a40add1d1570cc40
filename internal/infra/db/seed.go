package db

import (
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed は初期データを投入する（管理者ユーザー・カテゴリ・サンプル商品）。
// すでに行がある場合はスキップするので、何度起動しても増殖しない。
func Seed(gormDB *gorm.DB, adminEmail string, adminPassword string) error {
	if err := seedAdminUser(gormDB, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedCatalog(gormDB)
}

func seedAdminUser(gormDB *gorm.DB, email string, password string) error {
	var existing model.User
	err := gormDB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return gormDB.Create(&admin).Error
}

func seedCatalog(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []model.Category{
		{Name: "Electronics", Slug: "electronics", IsActive: true},
		{Name: "Clothing", Slug: "clothing", IsActive: true},
		{Name: "Books", Slug: "books", IsActive: true},
	}
	if err := gormDB.Create(&categories).Error; err != nil {
		return err
	}

	products := []model.Product{
		{
			CategoryID:  &categories[0].ID,
			Name:        "Wireless Headphones",
			Slug:        "wireless-headphones",
			Description: "Over-ear wireless headphones.",
			Price:       decimal.NewFromFloat(59.99),
			Stock:       25,
			IsAvailable: true,
		},
		{
			CategoryID:  &categories[1].ID,
			Name:        "Cotton T-Shirt",
			Slug:        "cotton-t-shirt",
			Description: "Plain cotton t-shirt.",
			Price:       decimal.NewFromFloat(9.99),
			Stock:       100,
			IsAvailable: true,
		},
		{
			CategoryID:  &categories[2].ID,
			Name:        "Paperback Novel",
			Slug:        "paperback-novel",
			Description: "Bestselling paperback.",
			Price:       decimal.NewFromFloat(14.50),
			Stock:       40,
			IsAvailable: true,
		},
	}
	return gormDB.Create(&products).Error
}
