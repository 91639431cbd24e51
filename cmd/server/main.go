package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/online-shop/internal/app"
	"github.com/linemk/online-shop/internal/app/handlers"
	"github.com/linemk/online-shop/internal/config"
	"github.com/linemk/online-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/online-shop/internal/lib/logger"
	"github.com/linemk/online-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/online-shop/internal/service"
	"github.com/linemk/online-shop/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	accountService := service.NewAccountService(application.Logger, application.DB, userRepo)
	productService := service.NewProductService(application.Logger, userRepo, productRepo)
	cartService := service.NewCartService(application.Logger, cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB, cartRepo, productRepo, orderRepo)

	// открытые эндпоинты: регистрация и вход
	router.Post("/user/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/user/login", handlers.LoginHandler(application.Logger, authService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)
		// аккаунт пользователя
		r.Get("/account", handlers.AccountInfoHandler(application.Logger, accountService))
		r.Post("/account", handlers.UpdateAccountHandler(application.Logger, accountService))
		// управление каталогом (изменения — только для администраторов)
		r.Post("/products/add", handlers.AddProductHandler(application.Logger, productService))
		r.Put("/products/edit", handlers.EditProductHandler(application.Logger, productService))
		r.Delete("/products/delete", handlers.DeleteProductHandler(application.Logger, productService))
		r.Get("/products/list", handlers.ListProductsHandler(application.Logger, productService))
		r.Get("/products/details", handlers.ProductDetailsHandler(application.Logger, productService))
		// корзина
		r.Post("/cart/add", handlers.AddToCartHandler(application.Logger, cartService))
		r.Get("/cart/view", handlers.ViewCartHandler(application.Logger, cartService))
		r.Delete("/cart/clear", handlers.ClearCartHandler(application.Logger, cartService))
		// оформление заказа (второй путь оставлен для совместимости клиентов)
		r.Post("/cart/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))
		r.Post("/orders/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
