package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/TheFoister/kgm-checker/config"
	"github.com/TheFoister/kgm-checker/module/query"
)

func main() {
	cfg := config.Load()
	deps := query.Deps{
		WebhookURL:         cfg.WebhookURL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = config.NewPostgres(cfg)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer func() { _ = db.Close() }()
		deps.DB = db
	}

	var amqpConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		var err error
		amqpConn, err = config.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer func() { _ = amqpConn.Close() }()
		deps.AMQP = amqpConn
	}

	var mqttClient mqtt.Client
	if cfg.MQTTBroker != "" {
		var err error
		mqttClient, err = config.NewMQTT(cfg)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer mqttClient.Disconnect(250)
		deps.MQTT = mqttClient
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		var err error
		redisClient, err = config.NewRedis(cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = redisClient.Close() }()
		deps.Redis = redisClient
	}

	queryModule, err := query.Build(context.Background(), deps)
	if err != nil {
		log.Fatalf("query module: %v", err)
	}

	if err := queryModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()
	// rate limiting keys on ClientIP, so forwarded headers count only from known proxies
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("trusted proxies: %v", err)
	}

	health := config.NewHealthChecker(db, amqpConn, mqttClient, redisClient)
	health.Register(r)

	queryModule.RegisterRoutes(&r.RouterGroup)

	// no write timeout: a webhook query may run for minutes
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s, webhook=%s", cfg.HTTPPort, cfg.WebhookURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
