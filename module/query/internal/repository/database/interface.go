package database

import (
	"context"
	"time"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

type QueryEventRepository interface {
	Insert(ctx context.Context, ev *domain.QueryEvent) error
	Stats(ctx context.Context, since time.Time) (*domain.QueryStats, error)
}
