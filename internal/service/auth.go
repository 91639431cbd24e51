package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/online-shop/internal/domain/models"
	security "github.com/linemk/online-shop/internal/jwt-new"
	"github.com/linemk/online-shop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		tokenTTL: tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Register создаёт нового пользователя.
// Имя приводится к нижнему регистру, чтобы уникальность не зависела от регистра,
// пароль хэшируется через bcrypt (который автоматически добавляет соль).
func (a *AuthService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	const op = "service.AuthService.Register"
	username = strings.ToLower(username)
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("registering user")

	// Проверяем, не занято ли имя
	_, err := a.userRepo.GetUserByUsername(ctx, username)
	if err == nil {
		logger.Warn("user already exists")
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to check user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to check user: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	newUser := &models.User{
		Username: username,
		PassHash: passHash,
		IsAdmin:  isAdmin,
	}
	user, err := a.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered successfully", slog.Int64("userID", user.ID))
	return user, nil
}

// Login осуществляет аутентификацию пользователя.
// Введённый пароль сравнивается с сохранённым хэшированным значением,
// после успешной проверки генерируется JWT-токен (секрет для подписи берется из переменной окружения).
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.AuthService.Login"
	username = strings.ToLower(username)
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	// Генерация JWT-токена. Функция security.NewToken внутри сама загружает секрет из переменной окружения JWT_SECRET.
	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}
