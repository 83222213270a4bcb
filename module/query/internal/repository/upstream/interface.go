package upstream

import (
	"context"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

type QueryClient interface {
	Query(ctx context.Context, plate string) (*domain.UpstreamResponse, error)
}
