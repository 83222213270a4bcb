package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/TheFoister/kgm-checker/module/query/domain"
)

type mockChecker struct {
	checkFn func(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error)
}

func (m *mockChecker) Check(ctx context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error) {
	return m.checkFn(ctx, source, plate)
}

type fakeToken struct{}

func (fakeToken) Wait() bool                     { return true }
func (fakeToken) WaitTimeout(time.Duration) bool { return true }
func (fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (fakeToken) Error() error { return nil }

type published struct {
	topic   string
	payload []byte
}

type fakeMQTTClient struct {
	mqtt.Client
	published []published
}

func (f *fakeMQTTClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	f.published = append(f.published, published{topic: topic, payload: payload.([]byte)})
	return fakeToken{}
}

type fakeMQTTMessage struct {
	topic   string
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 1 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return f.topic }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func requestMsg(id, payload string) *fakeMQTTMessage {
	return &fakeMQTTMessage{topic: "kgm/query/" + id + "/request", payload: []byte(payload)}
}

func decodeReply(t *testing.T, p published) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(p.payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return got
}

func TestHandleMessage_RelaysResult(t *testing.T) {
	upstream := `{"success":true,"data":{"plaka":"34ABC123","ozetBilgiler":{"genelToplam":"0,00 ₺"}}}`
	var checked string
	svc := &mockChecker{
		checkFn: func(_ context.Context, source domain.Source, plate string) (*domain.UpstreamResponse, error) {
			if source != domain.SourceMQTT {
				t.Errorf("expected mqtt source, got %s", source)
			}
			checked = plate
			return &domain.UpstreamResponse{Status: 200, Body: []byte(upstream)}, nil
		},
	}
	client := &fakeMQTTClient{}
	sub := NewQuerySubscriber(client, svc)

	sub.handleMessage(nil, requestMsg("req-1", `{"plaka":"34 abc 123"}`))

	if checked != "34ABC123" {
		t.Errorf("expected normalized 34ABC123, got %q", checked)
	}
	if len(client.published) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(client.published))
	}
	if client.published[0].topic != "kgm/query/req-1/result" {
		t.Errorf("unexpected topic %s", client.published[0].topic)
	}
	if string(client.published[0].payload) != upstream {
		t.Errorf("expected upstream body untouched, got %s", client.published[0].payload)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	svc := &mockChecker{
		checkFn: func(_ context.Context, _ domain.Source, _ string) (*domain.UpstreamResponse, error) {
			t.Fatal("Check should not be called")
			return nil, nil
		},
	}
	client := &fakeMQTTClient{}
	sub := NewQuerySubscriber(client, svc)

	sub.handleMessage(nil, requestMsg("req-2", "invalid"))

	if len(client.published) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(client.published))
	}
	got := decodeReply(t, client.published[0])
	if got["success"] != false || got["error"] != domain.MsgPlateRequired {
		t.Errorf("unexpected reply %v", got)
	}
}

func TestHandleMessage_BlankPlate(t *testing.T) {
	svc := &mockChecker{
		checkFn: func(_ context.Context, _ domain.Source, plate string) (*domain.UpstreamResponse, error) {
			if plate != "" {
				t.Errorf("expected blank plate, got %q", plate)
			}
			return nil, domain.ErrPlateRequired
		},
	}
	client := &fakeMQTTClient{}
	sub := NewQuerySubscriber(client, svc)

	sub.handleMessage(nil, requestMsg("req-3", `{"plaka":"  "}`))

	got := decodeReply(t, client.published[0])
	if got["error"] != domain.MsgPlateRequired {
		t.Errorf("expected %q, got %v", domain.MsgPlateRequired, got["error"])
	}
}

func TestHandleMessage_UpstreamError(t *testing.T) {
	svc := &mockChecker{
		checkFn: func(_ context.Context, _ domain.Source, _ string) (*domain.UpstreamResponse, error) {
			return nil, fmt.Errorf("%w: connection reset", domain.ErrUpstream)
		},
	}
	client := &fakeMQTTClient{}
	sub := NewQuerySubscriber(client, svc)

	sub.handleMessage(nil, requestMsg("req-4", `{"plaka":"34ABC123"}`))

	got := decodeReply(t, client.published[0])
	if got["error"] != domain.MsgQueryFailed {
		t.Errorf("expected %q, got %v", domain.MsgQueryFailed, got["error"])
	}
}

func TestHandleMessage_BadTopic(t *testing.T) {
	svc := &mockChecker{
		checkFn: func(_ context.Context, _ domain.Source, _ string) (*domain.UpstreamResponse, error) {
			t.Fatal("Check should not be called")
			return nil, nil
		},
	}
	client := &fakeMQTTClient{}
	sub := NewQuerySubscriber(client, svc)

	sub.handleMessage(nil, &fakeMQTTMessage{topic: "kgm/query/request", payload: []byte(`{"plaka":"34ABC123"}`)})

	if len(client.published) != 0 {
		t.Errorf("expected no reply, got %d", len(client.published))
	}
}

func TestRequestIDFromTopic(t *testing.T) {
	tests := []struct {
		topic   string
		want    string
		wantErr bool
	}{
		{"kgm/query/abc/request", "abc", false},
		{"kgm/query//request", "", true},
		{"kgm/query/abc/result", "", true},
		{"fleet/query/abc/request", "", true},
		{"kgm/query/a/b/request", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, err := requestIDFromTopic(tt.topic)
			if (err != nil) != tt.wantErr {
				t.Fatalf("requestIDFromTopic() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
