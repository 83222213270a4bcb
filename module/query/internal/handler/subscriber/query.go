package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

const (
	RequestTopicPattern = "kgm/query/+/request"
	resultTopicFormat   = "kgm/query/%s/result"
	qos                 = 1
)

type plateChecker interface {
	Check(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error)
}

type requestMessage struct {
	Plate string `json:"plaka"`
}

// QuerySubscriber answers plate queries published over MQTT. Each request
// on kgm/query/<id>/request gets exactly one reply on kgm/query/<id>/result.
type QuerySubscriber struct {
	client mqtt.Client
	svc    plateChecker
}

func NewQuerySubscriber(client mqtt.Client, svc plateChecker) *QuerySubscriber {
	return &QuerySubscriber{client: client, svc: svc}
}

func (s *QuerySubscriber) Start() error {
	token := s.client.Subscribe(RequestTopicPattern, qos, s.handleMessage)
	token.Wait()
	return token.Error()
}

// ResultTopic is where the reply to requestID is published.
func ResultTopic(requestID string) string {
	return fmt.Sprintf(resultTopicFormat, requestID)
}

func (s *QuerySubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	requestID, err := requestIDFromTopic(msg.Topic())
	if err != nil {
		log.Printf("invalid query topic %q: %v", msg.Topic(), err)
		return
	}

	var req requestMessage
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		log.Printf("invalid query message %s: %v", requestID, err)
		s.reply(requestID, failurePayload(domain.MsgPlateRequired))
		return
	}

	plate := domain.NormalizePlate(req.Plate)
	resp, err := s.svc.Check(context.Background(), domain.SourceMQTT, plate)
	switch {
	case errors.Is(err, domain.ErrPlateRequired):
		s.reply(requestID, failurePayload(domain.MsgPlateRequired))
	case err != nil:
		log.Printf("query kgm %s: %v", requestID, err)
		s.reply(requestID, failurePayload(domain.MsgQueryFailed))
	default:
		s.reply(requestID, resp.Body)
	}
}

func (s *QuerySubscriber) reply(requestID string, payload []byte) {
	token := s.client.Publish(ResultTopic(requestID), qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("publish query result %s: %v", requestID, err)
	}
}

func failurePayload(msg string) []byte {
	b, _ := json.Marshal(domain.Failure{Message: msg})
	return b
}

func requestIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "kgm" || parts[1] != "query" || parts[3] != "request" {
		return "", fmt.Errorf("want kgm/query/<id>/request")
	}
	if parts[2] == "" {
		return "", fmt.Errorf("request id: required")
	}
	return parts[2], nil
}
