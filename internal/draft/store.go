// Package draft 维护“进行中简历”的单槽草稿。
// 每个用户只有一个槽位，槽位在每次编辑后被无条件覆盖，远端保存成功后清空。
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"resumeflow/internal/resume"
)

// ErrUnavailable 表示草稿存储读写失败（非数据损坏）。
// 调用方应把它当作可恢复错误提示用户，内存中的记录保持可编辑。
var ErrUnavailable = errors.New("draft storage unavailable")

// Store 是草稿槽的抽象，供向导会话注入。
type Store interface {
	// Load 返回最近一次保存的草稿；槽位缺失或内容损坏时回退为默认记录。
	Load(ctx context.Context, ownerID uint) (resume.Record, error)
	// Save 无条件覆盖槽位。
	Save(ctx context.Context, ownerID uint, rec resume.Record) error
	// Clear 删除槽位，在远端保存成功后调用一次。
	Clear(ctx context.Context, ownerID uint) error
}

// redisKV 只暴露草稿存取需要的三个命令，便于测试替身。
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore 用 Redis 实现单槽草稿。
type RedisStore struct {
	client redisKV
	logger *slog.Logger
}

// NewRedisStore 构造 RedisStore。
func NewRedisStore(client redis.UniversalClient, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func draftKey(ownerID uint) string {
	return fmt.Sprintf("draft:resume:%d", ownerID)
}

// Load 读取草稿。损坏的槽位会被记日志并当作“无草稿”处理，
// 绝不让解析失败冒泡给编辑会话。
func (s *RedisStore) Load(ctx context.Context, ownerID uint) (resume.Record, error) {
	raw, err := s.client.Get(ctx, draftKey(ownerID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return resume.DefaultRecord(), nil
	case err != nil:
		return resume.DefaultRecord(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec resume.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		if s.logger != nil {
			s.logger.Warn("corrupt draft slot, falling back to defaults",
				slog.Uint64("owner_id", uint64(ownerID)),
				slog.Any("error", err),
			)
		}
		return resume.DefaultRecord(), nil
	}

	return resume.Normalize(rec), nil
}

// Save 覆盖草稿槽位。
func (s *RedisStore) Save(ctx context.Context, ownerID uint, rec resume.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(ownerID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear 删除草稿槽位。
func (s *RedisStore) Clear(ctx context.Context, ownerID uint) error {
	if err := s.client.Del(ctx, draftKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
