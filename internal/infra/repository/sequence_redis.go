package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisのINCRで実装した採番器。
// INCRはキーが無ければ0から作って+1するので、アトミックな
// increment-and-readとupsert-on-first-useが1コマンドで済む。
type SequenceRedis struct {
	rdb *redis.Client
}

// DI
func NewSequenceRedis(rdb *redis.Client) *SequenceRedis {
	return &SequenceRedis{rdb: rdb}
}

func (s *SequenceRedis) NextValue(ctx context.Context, name string, clientID string) (int64, error) {
	key := fmt.Sprintf("seq:%s", name)
	if clientID != "" {
		key = fmt.Sprintf("seq:%s:%s", name, clientID)
	}
	return s.rdb.Incr(ctx, key).Result()
}
