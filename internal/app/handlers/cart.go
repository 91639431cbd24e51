package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/online-shop/internal/domain/models"
	"github.com/linemk/online-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/online-shop/internal/service"
	"github.com/linemk/online-shop/internal/storage"
)

// AddToCartRequest представляет запрос на добавление товара в корзину.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartResponse — ответ GET /cart/view.
type CartResponse struct {
	Items []*models.CartLine `json:"items"`
}

// AddToCartHandler обрабатывает запрос POST /cart/add
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Product ID and valid quantity are required")
			return
		}

		// Количество по умолчанию — 1
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		if err := cartService.AddToCart(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCartInput):
				writeMessage(w, http.StatusBadRequest, "Product ID and valid quantity are required")
			case errors.Is(err, storage.ErrProductNotFound):
				writeMessage(w, http.StatusNotFound, "Product not found")
			case errors.Is(err, service.ErrNotEnoughStock):
				writeMessage(w, http.StatusBadRequest, "Not enough stock available")
			default:
				logger.Error("failed to add product to cart", slog.Any("error", err))
				writeMessage(w, http.StatusInternalServerError, "Failed to add product to cart")
			}
			return
		}

		writeMessage(w, http.StatusCreated, "Product added to cart successfully!")
	}
}

// ViewCartHandler обрабатывает запрос GET /cart/view
func ViewCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ViewCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		lines, err := cartService.ViewCart(r.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrCartEmpty) {
				writeMessage(w, http.StatusNotFound, "Cart is empty")
				return
			}
			logger.Error("failed to view cart", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to retrieve cart items")
			return
		}

		writeJSON(w, http.StatusOK, CartResponse{Items: lines})
	}
}

// ClearCartHandler обрабатывает запрос DELETE /cart/clear
func ClearCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if err := cartService.ClearCart(r.Context(), userID); err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to clear cart")
			return
		}

		writeMessage(w, http.StatusOK, "Cart cleared successfully!")
	}
}
