package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Publisher는 채널에 메시지를 발행하는 인터페이스입니다.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// redisPublisher Redis Pub/Sub 기반 Publisher 구현체
type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher는 Redis에 연결하고 Publisher를 반환합니다.
func NewRedisPublisher(addr, password string, db int) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	return &redisPublisher{client: client}, nil
}

// Publish 메시지를 JSON으로 직렬화해 발행합니다.
func (r *redisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	return r.client.Publish(ctx, channel, payload).Err()
}

// Close Redis 연결 종료
func (r *redisPublisher) Close() error {
	return r.client.Close()
}

// NopPublisher는 Redis 설정이 없을 때 사용하는 빈 구현체입니다.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
