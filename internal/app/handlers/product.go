package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/online-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/online-shop/internal/service"
	"github.com/linemk/online-shop/internal/storage"
	"github.com/shopspring/decimal"
)

// AddProductRequest представляет запрос на добавление товара.
// Цена и остаток — указатели, чтобы отличать отсутствующее поле от нуля.
type AddProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       *int             `json:"stock" validate:"required"`
}

// EditProductRequest представляет запрос на частичное изменение товара.
type EditProductRequest struct {
	ProductID   int64            `json:"product_id" validate:"required"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

// AddProductResponse — ответ при создании товара: id нужен клиенту,
// чтобы дальше работать с корзиной.
type AddProductResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// DeleteProductRequest представляет запрос на удаление товара.
type DeleteProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// ProductListEntry — элемент ответа GET /products/list.
type ProductListEntry struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// ProductDetailsEntry — элемент ответа GET /products/details.
type ProductDetailsEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// writeProductError переводит ошибки каталога в HTTP-статусы.
func writeProductError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrAdminRequired):
		writeMessage(w, http.StatusForbidden, "Admin access required")
	case errors.Is(err, storage.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, storage.ErrProductExists):
		writeMessage(w, http.StatusBadRequest, "Product with this name already exists")
	case errors.Is(err, service.ErrNegativePrice):
		writeMessage(w, http.StatusBadRequest, "Price cannot be negative")
	case errors.Is(err, service.ErrNegativeStock):
		writeMessage(w, http.StatusBadRequest, "Stock cannot be negative")
	case errors.Is(err, service.ErrEmptyUpdate):
		writeMessage(w, http.StatusBadRequest, "At least one field (name, price, or stock) must be provided for update")
	default:
		logger.Error("catalog operation failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

// AddProductHandler обрабатывает запрос POST /products/add (только для администраторов)
func AddProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddProductHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req AddProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Name, price, and stock are required")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Name, price, and stock are required")
			return
		}

		product, err := productService.AddProduct(r.Context(), userID, req.Name, req.Description, *req.Price, *req.Stock)
		if err != nil {
			writeProductError(w, logger, err, "Failed to add product")
			return
		}

		writeJSON(w, http.StatusCreated, AddProductResponse{
			Message:   "Product added successfully!",
			ProductID: product.ID,
		})
	}
}

// EditProductHandler обрабатывает запрос PUT /products/edit (только для администраторов)
func EditProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.EditProductHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req EditProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Product ID is required")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Product ID is required")
			return
		}

		update := service.ProductUpdate{
			ProductID:   req.ProductID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}
		if err := productService.EditProduct(r.Context(), userID, update); err != nil {
			writeProductError(w, logger, err, "Failed to update product")
			return
		}

		writeMessage(w, http.StatusOK, "Product updated successfully!")
	}
}

// DeleteProductHandler обрабатывает запрос DELETE /products/delete (только для администраторов)
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req DeleteProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Product ID is required")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, http.StatusBadRequest, "Product ID is required")
			return
		}

		if err := productService.DeleteProduct(r.Context(), userID, req.ProductID); err != nil {
			writeProductError(w, logger, err, "Failed to delete product")
			return
		}

		writeMessage(w, http.StatusOK, "Product deleted successfully!")
	}
}

// ListProductsHandler обрабатывает запрос GET /products/list
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to retrieve products")
			return
		}
		if len(products) == 0 {
			writeMessage(w, http.StatusNotFound, "No products available")
			return
		}

		entries := make([]ProductListEntry, 0, len(products))
		for _, p := range products {
			entries = append(entries, ProductListEntry{Name: p.Name, Stock: p.Stock})
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// ProductDetailsHandler обрабатывает запрос GET /products/details
func ProductDetailsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductDetailsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Failed to retrieve products")
			return
		}
		if len(products) == 0 {
			writeMessage(w, http.StatusNotFound, "No products available")
			return
		}

		entries := make([]ProductDetailsEntry, 0, len(products))
		for _, p := range products {
			entries = append(entries, ProductDetailsEntry{Name: p.Name, Description: p.Description, Price: p.Price})
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
