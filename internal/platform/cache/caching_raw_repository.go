// Package cache provides caching layers placed in front of provider lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_analysis/internal/platform/metrics"
)

// RawSource はキーに対応する生のJSONペイロードを返すデータソースです。
type RawSource interface {
	Fetch(ctx context.Context, key string) (json.RawMessage, error)
}

// DefaultTTL は TTLFunc が未指定または0以下を返した場合の有効期限です。
const DefaultTTL = 5 * time.Minute

// TTLFunc は保存のたびに評価される有効期限です。
type TTLFunc func() time.Duration

// FixedTTL は常に d を返す TTLFunc です。
func FixedTTL(d time.Duration) TTLFunc {
	return func() time.Duration { return d }
}

// CachingRawRepository は RawSource を Redis キャッシュでデコレートします。
// エラーはキャッシュしません。
type CachingRawRepository struct {
	inner     RawSource
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
}

var _ RawSource = (*CachingRawRepository)(nil)

// NewCachingRawRepository は RawSource を Redis キャッシュでデコレートします。
// ttl が nil の場合は DefaultTTL、namespace が空の場合は "lookup" を使用します。
func NewCachingRawRepository(rdb *redis.Client, ttl TTLFunc, inner RawSource, namespace string) *CachingRawRepository {
	if ttl == nil {
		ttl = FixedTTL(DefaultTTL)
	}
	if namespace == "" {
		namespace = "lookup"
	}
	return &CachingRawRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Fetch はキャッシュを確認し、ミスした場合は内部ソースから取得して保存します。
func (c *CachingRawRepository) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	// Redis未設定の場合はバイパス
	if c.rdb == nil {
		return c.inner.Fetch(ctx, key)
	}

	k := c.cacheKey(key)

	if b, err := c.rdb.Get(ctx, k).Bytes(); err == nil && len(b) > 0 {
		if json.Valid(b) {
			metrics.CacheRequests.WithLabelValues("redis", "hit").Inc()
			return json.RawMessage(b), nil
		}
		// 破損したエントリは削除
		slog.Warn("dropping corrupted cache entry", "key", k)
		_ = c.rdb.Del(ctx, k).Err()
	}
	metrics.CacheRequests.WithLabelValues("redis", "miss").Inc()

	out, err := c.inner.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	// best effort
	if err := c.rdb.Set(ctx, k, []byte(out), c.expiry()).Err(); err != nil {
		slog.Warn("failed to store cache entry", "key", k, "error", err)
	}
	return out, nil
}

// Invalidate はkeyのキャッシュを削除します。
func (c *CachingRawRepository) Invalidate(ctx context.Context, key string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(key)).Err()
}

func (c *CachingRawRepository) expiry() time.Duration {
	if d := c.ttl(); d > 0 {
		return d
	}
	return DefaultTTL
}

// cacheKey は namespace とパスエスケープしたキーを連結します。
// エスケープは可逆なので、異なるキーが同じエントリを共有することはありません。
func (c *CachingRawRepository) cacheKey(key string) string {
	return fmt.Sprintf("%s:%s", c.namespace, url.PathEscape(key))
}
