package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/online-shop/internal/domain/models"
	"github.com/linemk/online-shop/internal/storage"
)

var (
	ErrCartEmpty        = errors.New("cart is empty")
	ErrNotEnoughStock   = errors.New("not enough stock available")
	ErrInvalidCartInput = errors.New("product id and valid quantity are required")
)

// CartService определяет интерфейс для работы с корзиной.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID int64, quantity int) error
	ViewCart(ctx context.Context, userID int64) ([]*models.CartLine, error)
	ClearCart(ctx context.Context, userID int64) error
}

type cartService struct {
	log         *slog.Logger
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart добавляет товар в корзину.
// Достаточность остатка проверяется здесь, на момент добавления; при оформлении
// заказа остаток проверяется повторно, уже под блокировкой строки товара.
func (s *cartService) AddToCart(ctx context.Context, userID, productID int64, quantity int) error {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))
	logger.Info("adding product to cart", slog.Int("quantity", quantity))

	if productID <= 0 || quantity <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidCartInput)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Warn("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	if product.Stock < quantity {
		logger.Warn("not enough stock", slog.Int("stock", product.Stock), slog.Int("quantity", quantity))
		return fmt.Errorf("%s: %w", op, ErrNotEnoughStock)
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if _, err := s.cartRepo.AddCartItem(ctx, item); err != nil {
		logger.Error("failed to add cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to add cart item: %w", op, err)
	}

	logger.Info("product added to cart")
	return nil
}

func (s *cartService) ViewCart(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	const op = "service.CartService.ViewCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	lines, err := s.cartRepo.GetCartLines(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart lines: %w", op, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrCartEmpty)
	}
	return lines, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID int64) error {
	const op = "service.CartService.ClearCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("clearing cart")

	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		logger.Error("failed to clear cart", slog.Any("error", err))
		return fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}
	return nil
}
