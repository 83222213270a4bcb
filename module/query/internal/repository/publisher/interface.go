package publisher

import (
	"context"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

type QueryEventPublisher interface {
	PublishEvent(ctx context.Context, ev *domain.QueryEvent) error
}
