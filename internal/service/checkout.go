package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/online-shop/internal/domain/models"
	"github.com/linemk/online-shop/internal/storage"
	"github.com/shopspring/decimal"
)

// ProductGoneError возвращается, когда позиция корзины ссылается на товар,
// удалённый из каталога между добавлением в корзину и оформлением заказа.
type ProductGoneError struct {
	ProductID int64
}

func (e *ProductGoneError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// OrderReceipt — результат успешного оформления заказа.
type OrderReceipt struct {
	OrderID int64
	Total   decimal.Decimal
}

// CheckoutService определяет интерфейс оформления заказа.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID int64) (*OrderReceipt, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage, productRepo storage.ProductStorage, orderRepo storage.OrderStorage) CheckoutService {
	return &checkoutService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// PlaceOrder превращает корзину пользователя в неизменяемый заказ.
// Вся последовательность — чтение корзины, снимок цен, создание заказа,
// списание остатков и очистка корзины — выполняется в одной транзакции:
// при любой ошибке до коммита не остаётся никаких частичных изменений.
// Строки товаров блокируются на время транзакции (FOR UPDATE), поэтому два
// конкурентных оформления не могут увести остаток в минус.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID int64) (*OrderReceipt, error) {
	const op = "service.CheckoutService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting checkout transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Читаем корзину в рамках транзакции
	items, err := s.cartRepo.ListCartItemsTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to list cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list cart items: %w", op, err)
	}
	if len(items) == 0 {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrCartEmpty)
	}

	// Блокируем каждый товар из корзины и считаем итог по текущим ценам каталога.
	// Товар мог быть удалён администратором после добавления в корзину:
	// в этом случае оформление прерывается целиком, частичные заказы не сохраняются.
	products := make(map[int64]*models.Product, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			product, err = s.productRepo.LockProductByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					logger.Error("transaction rollback failed", slog.Any("error", rbErr))
				}
				if errors.Is(err, storage.ErrProductNotFound) {
					logger.Warn("product gone from catalog", slog.Int64("productID", item.ProductID))
					return nil, fmt.Errorf("%s: %w", op, &ProductGoneError{ProductID: item.ProductID})
				}
				logger.Error("failed to lock product", slog.Any("error", err))
				return nil, fmt.Errorf("%s: failed to lock product: %w", op, err)
			}
			products[item.ProductID] = product
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	// Создаем заказ
	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, userID, total, time.Now())
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Строки заказа со снимком цены и списание остатков.
	// Списание условное: при нехватке остатка вся транзакция откатывается.
	for _, item := range items {
		product := products[item.ProductID]
		if err := s.orderRepo.AddOrderItemTx(ctx, tx, orderID, item.ProductID, item.Quantity, product.Price); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to add order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to add order item: %w", op, err)
		}
		if err := s.productRepo.DecrementStockTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			if errors.Is(err, storage.ErrInsufficientStock) {
				logger.Warn("not enough stock at checkout", slog.Int64("productID", item.ProductID), slog.Int("quantity", item.Quantity))
				return nil, fmt.Errorf("%s: %w", op, ErrNotEnoughStock)
			}
			logger.Error("failed to decrement stock", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to decrement stock: %w", op, err)
		}
	}

	// Очищаем корзину
	if err := s.cartRepo.ClearCartTx(ctx, tx, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	// Коммит транзакции
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("checkout completed successfully", slog.Int64("orderID", orderID), slog.String("total", total.String()))
	return &OrderReceipt{OrderID: orderID, Total: total}, nil
}
