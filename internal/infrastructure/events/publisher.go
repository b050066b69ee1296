// Package events 发布实体变更事件
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"property-http-service/internal/infrastructure/config"
)

// 变更动作
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent 实体变更事件
type ChangeEvent struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     uint      `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher 变更事件发布者
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Close()
}

// NopPublisher 未配置消息服务器时使用
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

// Close 无操作
func (NopPublisher) Close() {}

// MQTTPublisher 通过 MQTT 发布事件, 主题为 <prefix>/<entity>/<action>
type MQTTPublisher struct {
	Client  mqtt.Client
	Prefix  string
	QoS     byte
	Timeout time.Duration

	log *zap.Logger
	mu  sync.Mutex
}

// NewMQTTPublisher 连接 MQTT 服务器
func NewMQTTPublisher(cfg *config.Config, log *zap.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// 使用唯一客户端ID, 多实例部署时互不踢线
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info("mqtt connected", zap.String("broker", cfg.MQTTBrokerURL))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.MQTTBrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.MQTTBrokerURL, err)
	}

	return NewMQTTPublisherWithClient(client, cfg.MQTTTopicPrefix, log), nil
}

// NewMQTTPublisherWithClient 使用已创建的客户端
func NewMQTTPublisherWithClient(client mqtt.Client, prefix string, log *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		Client:  client,
		Prefix:  prefix,
		QoS:     1,
		Timeout: 3 * time.Second,
		log:     log,
	}
}

// Topic 返回事件主题
func (p *MQTTPublisher) Topic(event ChangeEvent) string {
	if p.Prefix == "" {
		return event.Entity + "/" + event.Action
	}
	return p.Prefix + "/" + event.Entity + "/" + event.Action
}

// Publish 发布事件, 使用QoS 1确保消息至少被传递一次
func (p *MQTTPublisher) Publish(ctx context.Context, event ChangeEvent) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	p.mu.Lock()
	token := p.Client.Publish(p.Topic(event), p.QoS, false, payload)
	p.mu.Unlock()

	timeout := p.Timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("发布消息超时: %s", p.Topic(event))
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	return nil
}

// Close 断开连接
func (p *MQTTPublisher) Close() {
	p.Client.Disconnect(250)
}
