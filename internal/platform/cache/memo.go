package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"stock_analysis/internal/platform/metrics"
)

// DefaultMemoSize はプロセス内メモの既定の最大キー数です。
const DefaultMemoSize = 10

// Memo は固定容量のLRUメモです。キーごとに値は高々1つで、
// 容量を超えると最も長く参照されていないキーが追い出されます。
// 同一キーへの同時ミスはそれぞれloadを呼び出します。
type Memo[V any] struct {
	entries *lru.Cache[string, V]
}

// NewMemo は容量sizeのMemoを生成します。size<=0 の場合は DefaultMemoSize を使用します。
func NewMemo[V any](size int) *Memo[V] {
	if size <= 0 {
		size = DefaultMemoSize
	}
	// lru.New はsize<=0の場合のみエラーを返す
	entries, _ := lru.New[string, V](size)
	return &Memo[V]{entries: entries}
}

// Do はkeyの値を返します。未登録の場合はloadを呼び、成功時のみ結果を保存します。
func (m *Memo[V]) Do(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := m.entries.Get(key); ok {
		metrics.CacheRequests.WithLabelValues("memo", "hit").Inc()
		return v, nil
	}
	metrics.CacheRequests.WithLabelValues("memo", "miss").Inc()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	m.entries.Add(key, v)
	return v, nil
}

// Len は現在保持しているキー数を返します。
func (m *Memo[V]) Len() int {
	return m.entries.Len()
}

// Contains はkeyが保持されているかを返します。参照順序は更新しません。
func (m *Memo[V]) Contains(key string) bool {
	return m.entries.Contains(key)
}

// Purge はすべてのキーを破棄します。
func (m *Memo[V]) Purge() {
	m.entries.Purge()
}
