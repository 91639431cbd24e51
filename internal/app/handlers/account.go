package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/online-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/online-shop/internal/service"
	"github.com/linemk/online-shop/internal/storage"
)

// UpdateAccountRequest представляет запрос на изменение аккаунта.
// Оба поля опциональны: пустое поле не меняется.
type UpdateAccountRequest struct {
	NewUsername string `json:"new_username"`
	NewPassword string `json:"new_password"`
}

// AccountInfoHandler обрабатывает запрос GET /account
func AccountInfoHandler(log *slog.Logger, accountService service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AccountInfoHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		info, err := accountService.GetAccountInfo(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeMessage(w, http.StatusNotFound, "User not found")
				return
			}
			logger.Error("failed to get account info", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to retrieve account information")
			return
		}

		writeJSON(w, http.StatusOK, info)
	}
}

// UpdateAccountHandler обрабатывает запрос POST /account
func UpdateAccountHandler(log *slog.Logger, accountService service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateAccountHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Invalid request")
			return
		}

		if req.NewUsername != "" && len(req.NewUsername) < 5 {
			writeMessage(w, http.StatusBadRequest, "Username must be at least 5 characters")
			return
		}
		if req.NewPassword != "" && len(req.NewPassword) < 8 {
			writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}

		if err := accountService.UpdateAccount(r.Context(), userID, req.NewUsername, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameTaken):
				writeMessage(w, http.StatusBadRequest, "Username already taken")
			case errors.Is(err, storage.ErrUserNotFound):
				writeMessage(w, http.StatusNotFound, "User not found")
			default:
				logger.Error("failed to update account", slog.Any("error", err))
				writeMessage(w, http.StatusInternalServerError, "Failed to update account")
			}
			return
		}

		writeMessage(w, http.StatusOK, "Account updated successfully!")
	}
}
