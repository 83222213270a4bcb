package config

import (
	"database/sql"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// HealthChecker reports on whichever optional connections are configured.
// Nil fields are left out of the report.
type HealthChecker struct {
	db       *sql.DB
	amqpConn *amqp.Connection
	mqtt     mqtt.Client
	redis    *redis.Client
}

func NewHealthChecker(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, amqpConn: amqpConn, mqtt: mqttClient, redis: redisClient}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	down := func(name, reason string) {
		deps[name] = gin.H{"status": "down", "error": reason}
		status = http.StatusServiceUnavailable
	}
	up := func(name string) {
		deps[name] = gin.H{"status": "up"}
	}

	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			down("postgres", err.Error())
		} else {
			up("postgres")
		}
	}

	if h.amqpConn != nil {
		if h.amqpConn.IsClosed() {
			down("rabbitmq", "connection closed")
		} else {
			up("rabbitmq")
		}
	}

	if h.mqtt != nil {
		if !h.mqtt.IsConnected() {
			down("mqtt", "not connected")
		} else {
			up("mqtt")
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			down("redis", err.Error())
		} else {
			up("redis")
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
