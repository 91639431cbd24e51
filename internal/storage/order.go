package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linemk/online-shop/internal/domain/models"
	"github.com/shopspring/decimal"
)

// OrderStorage описывает методы для работы с заказами.
// Заказ — неизменяемый чек: интерфейс намеренно не содержит
// операций изменения или удаления.
type OrderStorage interface {
	// CreateOrderTx вставляет новый заказ и возвращает его id.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, orderDate time.Time) (int64, error)
	// AddOrderItemTx вставляет строку заказа со снимком цены товара.
	AddOrderItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int, price decimal.Decimal) error
	// GetOrdersByUserID возвращает список заказов пользователя.
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// GetOrderItems возвращает строки указанного заказа.
	GetOrderItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, orderDate time.Time) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"INSERT INTO orders (user_id, total, order_date) VALUES ($1, $2, $3) RETURNING id",
		userID, total, orderDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) AddOrderItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int, price decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)",
		orderID, productID, quantity, price,
	)
	if err != nil {
		return fmt.Errorf("failed to add order item: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, total, order_date
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.OrderDate); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrderItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
