package query

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	handler "github.com/TheFoister/kgm-checker/module/query/internal/handler/http"
	"github.com/TheFoister/kgm-checker/module/query/internal/handler/subscriber"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/database"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/database/postgres"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/publisher"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/publisher/rabbitmq"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit"
	ratelimitredis "github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit/redis"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/upstream/webhook"
	"github.com/TheFoister/kgm-checker/module/query/service"
)

// Deps carries everything the module can use. Only WebhookURL is required;
// every nil connection switches its feature off.
type Deps struct {
	WebhookURL string
	HTTPClient *http.Client

	DB    *sql.DB
	AMQP  *amqp.Connection
	MQTT  mqtt.Client
	Redis goredis.Cmdable

	RateLimitPerMinute int
}

type Module struct {
	QuerySvc   *service.QueryService
	api        *handler.QueryHandler
	page       *handler.PageHandler
	subscriber *subscriber.QuerySubscriber
	hasStats   bool
}

func Build(ctx context.Context, deps Deps) (*Module, error) {
	if deps.WebhookURL == "" {
		return nil, fmt.Errorf("webhook url: required")
	}

	var events database.QueryEventRepository
	if deps.DB != nil {
		repo := postgres.NewQueryEventRepo(deps.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		events = repo
	}

	var pub publisher.QueryEventPublisher
	if deps.AMQP != nil {
		p, err := rabbitmq.NewQueryEventPublisher(deps.AMQP)
		if err != nil {
			return nil, fmt.Errorf("query event publisher: %w", err)
		}
		pub = p
	}

	var limiter ratelimit.Limiter
	if deps.Redis != nil && deps.RateLimitPerMinute > 0 {
		limiter = ratelimitredis.NewLimiter(deps.Redis, deps.RateLimitPerMinute, time.Minute)
	}

	client := webhook.NewClient(deps.WebhookURL, deps.HTTPClient)
	querySvc := service.NewQueryService(client, events, pub)

	m := &Module{
		QuerySvc: querySvc,
		api:      handler.NewQueryHandler(querySvc, limiter),
		page:     handler.NewPageHandler(querySvc, limiter),
		hasStats: events != nil,
	}
	if deps.MQTT != nil {
		m.subscriber = subscriber.NewQuerySubscriber(deps.MQTT, querySvc)
	}
	return m, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.page.Register(r)
	m.api.Register(r)
	if m.hasStats {
		m.api.RegisterStats(r)
	}
}

// StartSubscribers is a no-op when no MQTT client was given.
func (m *Module) StartSubscribers() error {
	if m.subscriber == nil {
		return nil
	}
	return m.subscriber.Start()
}
