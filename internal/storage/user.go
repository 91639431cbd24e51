package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/online-shop/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserStorage interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUsernameTx(ctx context.Context, tx *sql.Tx, id int64, username string) error
	UpdatePassHashTx(ctx context.Context, tx *sql.Tx, id int64, passHash []byte) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx, "SELECT id, username, pass_hash, is_admin FROM users WHERE username = $1", username)
	if err := row.Scan(&user.ID, &user.Username, &user.PassHash, &user.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx, "SELECT id, username, pass_hash, is_admin FROM users WHERE id = $1", id)
	if err := row.Scan(&user.ID, &user.Username, &user.PassHash, &user.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, pass_hash, is_admin) VALUES ($1, $2, $3) RETURNING id",
		user.Username, user.PassHash, user.IsAdmin,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) UpdateUsernameTx(ctx context.Context, tx *sql.Tx, id int64, username string) error {
	res, err := tx.ExecContext(ctx, "UPDATE users SET username = $1 WHERE id = $2", username, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassHashTx(ctx context.Context, tx *sql.Tx, id int64, passHash []byte) error {
	res, err := tx.ExecContext(ctx, "UPDATE users SET pass_hash = $1 WHERE id = $2", passHash, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
