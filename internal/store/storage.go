package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
	}
	Reviews interface {
		Create(context.Context, *Review) error
		Delete(context.Context, int64) (*Review, error)
		ListByUser(context.Context, int64) ([]Review, error)
		ListByItem(context.Context, string) ([]Review, error)
		ListAll(context.Context) ([]Review, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:   &UsersStore{db},
		Reviews: &ReviewsStore{db},
	}
}
