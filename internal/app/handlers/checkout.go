package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linemk/online-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/online-shop/internal/service"
	"github.com/shopspring/decimal"
)

// CheckoutResponse — структура ответа при успешном оформлении заказа.
type CheckoutResponse struct {
	Message string          `json:"message"`
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// CheckoutHandler обрабатывает запрос POST /cart/checkout.
// Тело запроса не требуется: корзина определяется аутентифицированным пользователем.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		receipt, err := checkoutService.PlaceOrder(r.Context(), userID)
		if err != nil {
			var gone *service.ProductGoneError
			switch {
			case errors.Is(err, service.ErrCartEmpty):
				writeMessage(w, http.StatusNotFound, "Cart is empty")
			case errors.As(err, &gone):
				writeMessage(w, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", gone.ProductID))
			case errors.Is(err, service.ErrNotEnoughStock):
				writeMessage(w, http.StatusBadRequest, "Not enough stock available")
			default:
				logger.Error("failed to place order", slog.Any("error", err))
				writeMessage(w, http.StatusInternalServerError, "Failed to place order")
			}
			return
		}

		writeJSON(w, http.StatusOK, CheckoutResponse{
			Message: "Order placed successfully!",
			OrderID: receipt.OrderID,
			Total:   receipt.Total,
		})
	}
}
