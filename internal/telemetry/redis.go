package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sarlink/internal/config"
	"sarlink/internal/events"
	"sarlink/internal/logger"
)

const EventsChannel = "sarlink:events"

func robotKey(id string) string {
	return fmt.Sprintf("sarlink:robot:%s", id)
}

// redisWriter is the subset of *redis.Client the mirror uses.
type redisWriter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisOp struct {
	key     string // SET when non-empty, PUBLISH otherwise
	payload []byte
}

// RedisMirror keeps the latest state of each robot under sarlink:robot:<id>
// and publishes every bus event on sarlink:events. Writes are queued and
// performed by Run so bus handlers never block on the network.
type RedisMirror struct {
	client  redisWriter
	conn    *redis.Client
	sampler sampler
	queue   chan redisOp
	bus     *events.Bus
	sub     events.SubscriberID
}

func DialRedis(ctx context.Context, cfg config.RedisConfig) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}
	m := NewRedisMirror(client, cfg)
	m.conn = client
	return m, nil
}

func NewRedisMirror(client redisWriter, cfg config.RedisConfig) *RedisMirror {
	return &RedisMirror{
		client:  client,
		sampler: sampler{n: uint64(max(cfg.Every, 0))},
		queue:   make(chan redisOp, 256),
	}
}

func (m *RedisMirror) Attach(bus *events.Bus) {
	m.bus = bus
	m.sub = bus.Subscribe(m.handle)
}

func (m *RedisMirror) handle(evt events.Event) {
	switch ev := evt.Payload.(type) {
	case events.FleetTickedEvent:
		if !m.sampler.keep(ev.Tick) {
			return
		}
		for _, r := range ev.Fleet {
			data, err := json.Marshal(robotState{Tick: ev.Tick, Robot: r})
			if err != nil {
				continue
			}
			m.enqueue(redisOp{key: robotKey(r.ID), payload: data})
		}
		return
	}

	data, err := encode(evt, evt.Payload)
	if err != nil {
		logger.Log.Printf("[Telemetry] encode %s: %v", evt.Type, err)
		return
	}
	m.enqueue(redisOp{payload: data})
}

func (m *RedisMirror) enqueue(op redisOp) {
	select {
	case m.queue <- op:
	default:
		// drop if full
	}
}

// Run performs queued writes until ctx is done.
func (m *RedisMirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-m.queue:
			m.write(ctx, op)
		}
	}
}

func (m *RedisMirror) write(ctx context.Context, op redisOp) {
	var err error
	if op.key != "" {
		err = m.client.Set(ctx, op.key, op.payload, 0).Err()
	} else {
		err = m.client.Publish(ctx, EventsChannel, op.payload).Err()
	}
	if err != nil && ctx.Err() == nil {
		logger.Log.Printf("[Telemetry] redis write: %v", err)
	}
}

func (m *RedisMirror) Close() error {
	if m.bus != nil {
		m.bus.Unsubscribe(m.sub)
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
