package models

// User представляет пользователя магазина
type User struct {
	ID       int64
	Username string // Уникальное имя (хранится в нижнем регистре)
	PassHash []byte
	IsAdmin  bool
}
