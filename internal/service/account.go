package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/online-shop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrUsernameTaken = errors.New("username already taken")

// AccountService определяет интерфейс для работы с аккаунтом пользователя.
type AccountService interface {
	GetAccountInfo(ctx context.Context, userID int64) (*AccountInfo, error)
	UpdateAccount(ctx context.Context, userID int64, newUsername, newPassword string) error
}

// AccountInfo — информация об аккаунте, возвращаемая клиенту.
type AccountInfo struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type accountService struct {
	log      *slog.Logger
	db       *sql.DB
	userRepo storage.UserStorage
}

func NewAccountService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage) AccountService {
	return &accountService{
		log:      log,
		db:       db,
		userRepo: userRepo,
	}
}

func (s *accountService) GetAccountInfo(ctx context.Context, userID int64) (*AccountInfo, error) {
	const op = "service.AccountService.GetAccountInfo"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("getting account info")

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &AccountInfo{UserID: user.ID, Username: user.Username}, nil
}

// UpdateAccount меняет имя пользователя и/или пароль.
// Обе колонки обновляются в одной транзакции: либо применяются все изменения, либо никакие.
func (s *accountService) UpdateAccount(ctx context.Context, userID int64, newUsername, newPassword string) error {
	const op = "service.AccountService.UpdateAccount"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("updating account")

	newUsername = strings.ToLower(newUsername)

	if newUsername != "" {
		// Имя должно оставаться уникальным среди остальных пользователей
		existing, err := s.userRepo.GetUserByUsername(ctx, newUsername)
		if err == nil && existing.ID != userID {
			logger.Warn("username already taken", slog.String("newUsername", newUsername))
			return fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
			logger.Error("failed to check username", slog.Any("error", err))
			return fmt.Errorf("%s: failed to check username: %w", op, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if newUsername != "" {
		if err := s.userRepo.UpdateUsernameTx(ctx, tx, userID, newUsername); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to update username", slog.Any("error", err))
			return fmt.Errorf("%s: failed to update username: %w", op, err)
		}
	}

	if newPassword != "" {
		passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to hash password", slog.Any("error", err))
			return fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		if err := s.userRepo.UpdatePassHashTx(ctx, tx, userID, passHash); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to update password", slog.Any("error", err))
			return fmt.Errorf("%s: failed to update password: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("account updated successfully")
	return nil
}
