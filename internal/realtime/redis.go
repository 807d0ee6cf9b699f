package realtime

import (
	"context"
	"log"
	"sync"

	"coolcare-api/internal/config"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "coolcare:changes:"

// redisNotifier fans table-change notifications out across replicas via
// Redis pub/sub. Local subscribers are fed from one subscriber goroutine
// per table.
type redisNotifier struct {
	client *redis.Client
	local  *Bus

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New returns the best available Notifier: Redis-backed when an address is
// configured and reachable, otherwise the in-process bus. Startup never
// fails on a missing broker; a single replica degrades gracefully.
func New(cfg config.RedisConfig) Notifier {
	if cfg.Addr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, using in-process change notifier")
		return NewBus()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable (%v), using in-process change notifier", err)
		return NewBus()
	}

	log.Printf("✅ Change notifier connected to Redis [%s]", cfg.Addr)
	return &redisNotifier{
		client:  client,
		local:   NewBus(),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Publish announces a table change to every replica
func (n *redisNotifier) Publish(ctx context.Context, table string) {
	if err := n.client.Publish(ctx, channelPrefix+table, table).Err(); err != nil {
		log.Printf("⚠️ Change publish failed for %s: %v", table, err)
	}
}

// Subscribe registers a local callback and lazily starts the Redis
// subscription for the table.
func (n *redisNotifier) Subscribe(table string, fn func(table string)) func() {
	n.mu.Lock()
	if _, ok := n.cancels[table]; !ok {
		ctx, cancel := context.WithCancel(context.Background())
		n.cancels[table] = cancel
		go n.run(ctx, table)
	}
	n.mu.Unlock()

	return n.local.Subscribe(table, fn)
}

func (n *redisNotifier) run(ctx context.Context, table string) {
	sub := n.client.Subscribe(ctx, channelPrefix+table)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n.local.Publish(ctx, msg.Payload)
		}
	}
}

// Close stops all subscriptions and the Redis client
func (n *redisNotifier) Close() error {
	n.mu.Lock()
	for _, cancel := range n.cancels {
		cancel()
	}
	n.cancels = make(map[string]context.CancelFunc)
	n.mu.Unlock()

	return n.client.Close()
}
