package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ChapterLocker 串行化同一章节的结算，保证先解者奖励只计算一次
type ChapterLocker interface {
	Lock(ctx context.Context, contentID uint) (unlock func(), err error)
}

// LocalChapterLocker 单实例部署使用的进程内锁
type LocalChapterLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewLocalChapterLocker() *LocalChapterLocker {
	return &LocalChapterLocker{locks: make(map[uint]*sync.Mutex)}
}

func (l *LocalChapterLocker) Lock(ctx context.Context, contentID uint) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[contentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[contentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisChapterLocker 多实例部署时基于 SET NX 的分布式锁
type RedisChapterLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Retry  time.Duration
}

func NewRedisChapterLocker(client *redis.Client) *RedisChapterLocker {
	return &RedisChapterLocker{
		Client: client,
		TTL:    10 * time.Second,
		Retry:  25 * time.Millisecond,
	}
}

func (l *RedisChapterLocker) Lock(ctx context.Context, contentID uint) (func(), error) {
	key := fmt.Sprintf("chapter:finalize:%d", contentID)
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Retry):
		}
	}

	return func() {
		// 请求可能已取消，释放锁使用独立的 context
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.Client, []string{key}, token)
	}, nil
}
