package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет заказ — неизменяемый чек, созданный при оформлении корзины
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	OrderDate time.Time       `json:"order_date"`
}

// OrderItem — строка заказа. Поле Price хранит снимок цены товара
// на момент оформления, история заказов не зависит от изменений каталога.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
