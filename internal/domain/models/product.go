package models

import "github.com/shopspring/decimal"

// Product представляет товар каталога
type Product struct {
	ID          int64
	Name        string // Название товара (уникальное, в нижнем регистре)
	Description string
	Price       decimal.Decimal // Цена, всегда >= 0
	Stock       int             // Остаток на складе, всегда >= 0
}
