package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeToken struct {
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient 仅实现 Publish 与 Disconnect
type fakeClient struct {
	mqtt.Client
	token        *fakeToken
	messages     []published
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestMQTTPublisherPublish(t *testing.T) {
	client := &fakeClient{token: &fakeToken{complete: true}}
	p := NewMQTTPublisherWithClient(client, "property", zap.NewNop())

	at := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), ChangeEvent{Entity: "tenancy", Action: ActionCreated, ID: 7, At: at}))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "property/tenancy/created", msg.topic)
	assert.Equal(t, byte(1), msg.qos)

	var event ChangeEvent
	require.NoError(t, json.Unmarshal(msg.payload, &event))
	assert.Equal(t, uint(7), event.ID)
	assert.True(t, at.Equal(event.At))

	p.Close()
	assert.True(t, client.disconnected)
}

func TestMQTTPublisherErrors(t *testing.T) {
	client := &fakeClient{token: &fakeToken{complete: false}}
	p := NewMQTTPublisherWithClient(client, "", zap.NewNop())

	err := p.Publish(context.Background(), ChangeEvent{Entity: "tenant", Action: ActionDeleted, ID: 1})
	assert.ErrorContains(t, err, "tenant/deleted")

	client.token = &fakeToken{complete: true, err: errors.New("not connected")}
	err = p.Publish(context.Background(), ChangeEvent{Entity: "tenant", Action: ActionDeleted, ID: 1})
	assert.ErrorContains(t, err, "not connected")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ChangeEvent{}))
	p.Close()
}
