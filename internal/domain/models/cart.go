package models

import "github.com/shopspring/decimal"

// CartItem представляет позицию корзины: намерение купить товар.
// Живет до оформления заказа или очистки корзины.
type CartItem struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartLine — строка корзины для отображения, собирается через JOIN с таблицей products
type CartLine struct {
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}
