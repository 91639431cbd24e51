package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/online-shop/internal/service"
)

// RegisterRequest представляет структуру запроса на регистрацию с тегами валидации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=5"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

// LoginRequest представляет структуру запроса на вход
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет структуру ответа с JWT-токеном
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterHandler обрабатывает запрос POST /user/register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		if req.Username == "" || req.Password == "" {
			logger.Warn("missing username or password")
			writeMessage(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		// Валидация длины полей с использованием validator
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Username must be at least 5 characters and password at least 8 characters")
			return
		}

		if _, err := authService.Register(r.Context(), req.Username, req.Password, req.IsAdmin); err != nil {
			if errors.Is(err, service.ErrUserExists) {
				writeMessage(w, http.StatusBadRequest, "User already exists")
				return
			}
			logger.Error("failed to register user", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Failed to register user")
			return
		}

		writeMessage(w, http.StatusCreated, "User registered successfully!")
	}
}

// LoginHandler обрабатывает запрос POST /user/login.
// При успешной проверке пароля возвращается JWT-токен: дальше клиент
// ходит с ним в заголовке Authorization, состояние сессии на сервере не хранится.
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		token, err := authService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				logger.Warn("invalid credentials")
				writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to log in")
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
