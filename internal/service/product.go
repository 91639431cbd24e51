package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/online-shop/internal/domain/models"
	"github.com/linemk/online-shop/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrAdminRequired = errors.New("admin access required")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNegativeStock = errors.New("stock cannot be negative")
	ErrEmptyUpdate   = errors.New("at least one field must be provided for update")
)

// ProductService определяет интерфейс для управления каталогом.
// Операции изменения каталога доступны только администраторам:
// вызывающий пользователь перечитывается из БД и проверяется его флаг is_admin.
type ProductService interface {
	AddProduct(ctx context.Context, callerID int64, name, description string, price decimal.Decimal, stock int) (*models.Product, error)
	EditProduct(ctx context.Context, callerID int64, update ProductUpdate) error
	DeleteProduct(ctx context.Context, callerID int64, productID int64) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

// ProductUpdate описывает частичное обновление товара: nil-поля не меняются.
type ProductUpdate struct {
	ProductID   int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
}

type productService struct {
	log         *slog.Logger
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
}

func NewProductService(log *slog.Logger, userRepo storage.UserStorage, productRepo storage.ProductStorage) ProductService {
	return &productService{
		log:         log,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// requireAdmin проверяет, что вызывающий пользователь существует и является администратором.
func (s *productService) requireAdmin(ctx context.Context, callerID int64) error {
	caller, err := s.userRepo.GetUserByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

func (s *productService) AddProduct(ctx context.Context, callerID int64, name, description string, price decimal.Decimal, stock int) (*models.Product, error) {
	const op = "service.ProductService.AddProduct"
	name = strings.ToLower(name)
	logger := s.log.With(slog.String("op", op), slog.Int64("callerID", callerID), slog.String("name", name))
	logger.Info("adding product")

	if err := s.requireAdmin(ctx, callerID); err != nil {
		logger.Warn("admin check failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if price.IsNegative() {
		return nil, fmt.Errorf("%s: %w", op, ErrNegativePrice)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNegativeStock)
	}

	// Дубликаты по имени запрещены
	if _, err := s.productRepo.GetProductByName(ctx, name); err == nil {
		logger.Warn("product already exists")
		return nil, fmt.Errorf("%s: %w", op, storage.ErrProductExists)
	} else if !errors.Is(err, storage.ErrProductNotFound) {
		logger.Error("failed to check product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to check product: %w", op, err)
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}
	product, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product added successfully", slog.Int64("productID", product.ID))
	return product, nil
}

func (s *productService) EditProduct(ctx context.Context, callerID int64, update ProductUpdate) error {
	const op = "service.ProductService.EditProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("callerID", callerID), slog.Int64("productID", update.ProductID))
	logger.Info("editing product")

	if err := s.requireAdmin(ctx, callerID); err != nil {
		logger.Warn("admin check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if update.Name == nil && update.Description == nil && update.Price == nil && update.Stock == nil {
		return fmt.Errorf("%s: %w", op, ErrEmptyUpdate)
	}
	if update.Price != nil && update.Price.IsNegative() {
		return fmt.Errorf("%s: %w", op, ErrNegativePrice)
	}
	if update.Stock != nil && *update.Stock < 0 {
		return fmt.Errorf("%s: %w", op, ErrNegativeStock)
	}

	product, err := s.productRepo.GetProductByID(ctx, update.ProductID)
	if err != nil {
		logger.Warn("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	if update.Name != nil {
		name := strings.ToLower(*update.Name)
		existing, err := s.productRepo.GetProductByName(ctx, name)
		if err == nil && existing.ID != update.ProductID {
			logger.Warn("product name already taken", slog.String("name", name))
			return fmt.Errorf("%s: %w", op, storage.ErrProductExists)
		}
		if err != nil && !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to check product name", slog.Any("error", err))
			return fmt.Errorf("%s: failed to check product name: %w", op, err)
		}
		product.Name = name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error("failed to update product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	logger.Info("product updated successfully")
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, callerID int64, productID int64) error {
	const op = "service.ProductService.DeleteProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("callerID", callerID), slog.Int64("productID", productID))
	logger.Info("deleting product")

	if err := s.requireAdmin(ctx, callerID); err != nil {
		logger.Warn("admin check failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		logger.Warn("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	logger.Info("product deleted successfully")
	return nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}
