package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/online-shop/internal/domain/models"
)

// CartStorage описывает методы для работы с корзиной.
type CartStorage interface {
	// AddCartItem добавляет позицию в корзину. Позиции не дедуплицируются:
	// повторное добавление того же товара создаёт отдельную строку.
	AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	// GetCartLines возвращает содержимое корзины с данными товаров через JOIN.
	GetCartLines(ctx context.Context, userID int64) ([]*models.CartLine, error)
	// ListCartItemsTx возвращает позиции корзины пользователя в рамках транзакции.
	ListCartItemsTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartItem, error)
	// ClearCart удаляет все позиции корзины пользователя.
	ClearCart(ctx context.Context, userID int64) error
	// ClearCartTx — то же, но в рамках транзакции оформления заказа.
	ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id",
		item.UserID, item.ProductID, item.Quantity,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item.ID = id
	return item, nil
}

func (r *cartRepository) GetCartLines(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	query := `
		SELECT p.name, c.quantity, p.price, p.price * c.quantity
		FROM cart_items c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ProductName, &line.Quantity, &line.PricePerItem, &line.TotalPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) ListCartItemsTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartItem, error) {
	query := "SELECT id, user_id, product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id"
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
