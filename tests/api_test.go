package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseURL = "http://localhost:8080"

// LoginResponse структура ответа при входе
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse типовой ответ API с одним сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// AddProductRequest структура запроса на добавление товара
type AddProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// AddToCartRequest структура запроса на добавление товара в корзину
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutResponse структура ответа при оформлении заказа
type CheckoutResponse struct {
	Message string  `json:"message"`
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}

// CartResponse структура ответа при просмотре корзины
type CartResponse struct {
	Items []struct {
		ProductName  string  `json:"product_name"`
		Quantity     int     `json:"quantity"`
		PricePerItem float64 `json:"price_per_item"`
		TotalPrice   float64 `json:"total_price"`
	} `json:"items"`
}

// ProductDetailsEntry строка ответа /products/details
type ProductDetailsEntry struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func registerUser(t *testing.T, username, password string, isAdmin bool) {
	reqBody := []byte(fmt.Sprintf(`{"username": %q, "password": %q, "is_admin": %v}`, username, password, isAdmin))
	resp, err := http.Post(baseURL+"/user/register", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err, "Register request should not error")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Expected 201 Created for registration")
}

func loginUser(t *testing.T, username, password string) string {
	reqBody := []byte(fmt.Sprintf(`{"username": %q, "password": %q}`, username, password))
	resp, err := http.Post(baseURL+"/user/login", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err, "Login request should not error")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for valid login")

	var loginResp LoginResponse
	err = json.NewDecoder(resp.Body).Decode(&loginResp)
	assert.NoError(t, err, "Decoding login response should succeed")
	assert.NotEmpty(t, loginResp.Token, "Token should not be empty")
	return loginResp.Token
}

func doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(t, err)
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	assert.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	return resp
}

// addProduct создает товар от имени администратора и возвращает его id из /products/list
func addProduct(t *testing.T, adminToken, name string, price float64, stock int) int64 {
	resp := doJSON(t, "POST", "/products/add", adminToken, AddProductRequest{
		Name:        name,
		Description: "test product",
		Price:       price,
		Stock:       stock,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Expected 201 for product creation")

	var created struct {
		ProductID int64 `json:"product_id"`
	}
	err := json.NewDecoder(resp.Body).Decode(&created)
	assert.NoError(t, err)
	assert.NotZero(t, created.ProductID, "Created product should have an id")
	return created.ProductID
}

// uniqueName генерирует уникальное имя, чтобы повторные запуски не конфликтовали
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, rand.Int63())
}

// сценарий регистрации и входа пользователя
func TestRegisterAndLogin(t *testing.T) {
	username := uniqueName("e2euser")
	registerUser(t, username, "testpass123", false)
	token := loginUser(t, username, "testpass123")
	assert.NotEmpty(t, token, "token should be obtained")
}

// сценарий с короткими именем и паролем
func TestRegisterInvalid(t *testing.T) {
	reqBody := []byte(`{"username": "abc", "password": "short"}`)
	resp, err := http.Post(baseURL+"/user/register", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for invalid registration data")
}

// сценарий входа с неверным паролем
func TestLoginInvalidPassword(t *testing.T) {
	username := uniqueName("e2euser")
	registerUser(t, username, "testpass123", false)

	reqBody := []byte(fmt.Sprintf(`{"username": %q, "password": "wrongpass"}`, username))
	resp, err := http.Post(baseURL+"/user/login", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for wrong password")
}

// сценарий доступа к каталогу без токена
func TestProductsUnauthorized(t *testing.T) {
	req, err := http.NewRequest("GET", baseURL+"/products/list", nil)
	assert.NoError(t, err)
	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 unauthorized for missing token")
}

// сценарий добавления товара обычным пользователем
func TestAddProductForbidden(t *testing.T) {
	username := uniqueName("plainuser")
	registerUser(t, username, "testpass123", false)
	token := loginUser(t, username, "testpass123")

	resp := doJSON(t, "POST", "/products/add", token, AddProductRequest{
		Name:  uniqueName("widget"),
		Price: 10.99,
		Stock: 5,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "expected 403 for non-admin product creation")
}

// полный сценарий: администратор создает товар, покупатель кладет его в корзину и оформляет заказ
func TestCheckoutFlow(t *testing.T) {
	adminName := uniqueName("admin")
	registerUser(t, adminName, "adminpass123", true)
	adminToken := loginUser(t, adminName, "adminpass123")

	buyerName := uniqueName("buyer")
	registerUser(t, buyerName, "buyerpass123", false)
	buyerToken := loginUser(t, buyerName, "buyerpass123")

	productName := uniqueName("widget")
	productID := addProduct(t, adminToken, productName, 10.99, 100)

	// Кладем две штуки в корзину
	respAdd := doJSON(t, "POST", "/cart/add", buyerToken, AddToCartRequest{ProductID: productID, Quantity: 2})
	defer respAdd.Body.Close()
	assert.Equal(t, http.StatusCreated, respAdd.StatusCode, "expected 201 for adding to cart")

	// Проверяем содержимое корзины
	respView := doJSON(t, "GET", "/cart/view", buyerToken, nil)
	defer respView.Body.Close()
	assert.Equal(t, http.StatusOK, respView.StatusCode)

	var cartResp CartResponse
	err := json.NewDecoder(respView.Body).Decode(&cartResp)
	assert.NoError(t, err)
	assert.Len(t, cartResp.Items, 1)
	assert.Equal(t, productName, cartResp.Items[0].ProductName)
	assert.InDelta(t, 21.98, cartResp.Items[0].TotalPrice, 0.001)

	// Оформляем заказ
	respCheckout := doJSON(t, "POST", "/cart/checkout", buyerToken, nil)
	defer respCheckout.Body.Close()
	assert.Equal(t, http.StatusOK, respCheckout.StatusCode, "expected 200 for checkout")

	var checkoutResp CheckoutResponse
	err = json.NewDecoder(respCheckout.Body).Decode(&checkoutResp)
	assert.NoError(t, err)
	assert.Equal(t, "Order placed successfully!", checkoutResp.Message)
	assert.NotZero(t, checkoutResp.OrderID)
	assert.InDelta(t, 21.98, checkoutResp.Total, 0.001)

	// Корзина после оформления пуста
	respEmpty := doJSON(t, "GET", "/cart/view", buyerToken, nil)
	defer respEmpty.Body.Close()
	assert.Equal(t, http.StatusNotFound, respEmpty.StatusCode, "cart should be empty after checkout")
}

// сценарий оформления заказа с пустой корзиной
func TestCheckoutEmptyCart(t *testing.T) {
	username := uniqueName("emptycart")
	registerUser(t, username, "testpass123", false)
	token := loginUser(t, username, "testpass123")

	resp := doJSON(t, "POST", "/cart/checkout", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "expected 404 for empty cart checkout")

	var msgResp MessageResponse
	err := json.NewDecoder(resp.Body).Decode(&msgResp)
	assert.NoError(t, err)
	assert.Equal(t, "Cart is empty", msgResp.Message)
}

// сценарий добавления в корзину больше, чем есть на складе
func TestAddToCartNotEnoughStock(t *testing.T) {
	adminName := uniqueName("admin")
	registerUser(t, adminName, "adminpass123", true)
	adminToken := loginUser(t, adminName, "adminpass123")

	buyerName := uniqueName("buyer")
	registerUser(t, buyerName, "buyerpass123", false)
	buyerToken := loginUser(t, buyerName, "buyerpass123")

	productID := addProduct(t, adminToken, uniqueName("scarce"), 5.00, 1)

	resp := doJSON(t, "POST", "/cart/add", buyerToken, AddToCartRequest{ProductID: productID, Quantity: 10})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 when quantity exceeds stock")
}

// сценарий оформления заказа после удаления товара из каталога
func TestCheckoutProductDeleted(t *testing.T) {
	adminName := uniqueName("admin")
	registerUser(t, adminName, "adminpass123", true)
	adminToken := loginUser(t, adminName, "adminpass123")

	buyerName := uniqueName("buyer")
	registerUser(t, buyerName, "buyerpass123", false)
	buyerToken := loginUser(t, buyerName, "buyerpass123")

	productID := addProduct(t, adminToken, uniqueName("doomed"), 3.50, 10)

	respAdd := doJSON(t, "POST", "/cart/add", buyerToken, AddToCartRequest{ProductID: productID, Quantity: 1})
	defer respAdd.Body.Close()
	assert.Equal(t, http.StatusCreated, respAdd.StatusCode)

	// Администратор удаляет товар, пока он лежит в корзине
	respDel := doJSON(t, "DELETE", "/products/delete", adminToken, map[string]int64{"product_id": productID})
	defer respDel.Body.Close()
	assert.Equal(t, http.StatusOK, respDel.StatusCode)

	resp := doJSON(t, "POST", "/cart/checkout", buyerToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "expected 404 when a cart product was deleted")

	var msgResp MessageResponse
	err := json.NewDecoder(resp.Body).Decode(&msgResp)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Product with ID %d not found", productID), msgResp.Message)
}
