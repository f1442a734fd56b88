// Package usecase は生のプロバイダペイロードを返すルックアップ操作を提供します。
package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"stock_analysis/internal/platform/cache"
	"stock_analysis/internal/platform/metrics"
)

// RawSourceFunc は関数を cache.RawSource として扱うためのアダプタです。
type RawSourceFunc func(ctx context.Context, key string) (json.RawMessage, error)

// Fetch は f(ctx, key) を呼び出します。
func (f RawSourceFunc) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	return f(ctx, key)
}

// ValidatedSource はプロバイダ呼び出しの結果を分類します。
// 通信・HTTPエラーは *UpstreamError、空のペイロードは ErrEmptyUpstream になります。
type ValidatedSource struct {
	provider string
	inner    cache.RawSource
}

var _ cache.RawSource = (*ValidatedSource)(nil)

// NewValidatedSource は inner を provider 名付きでラップします。
func NewValidatedSource(provider string, inner cache.RawSource) *ValidatedSource {
	return &ValidatedSource{provider: provider, inner: inner}
}

// Fetch は inner を呼び出し、結果を検証します。
func (s *ValidatedSource) Fetch(ctx context.Context, key string) (json.RawMessage, error) {
	body, err := s.inner.Fetch(ctx, key)
	if err != nil {
		return nil, &UpstreamError{Provider: s.provider, Err: err}
	}
	if IsEmptyPayload(body) {
		metrics.UpstreamRequests.WithLabelValues(s.provider, "empty").Inc()
		return nil, ErrEmptyUpstream
	}
	return body, nil
}

// IsEmptyPayload はボディが空、JSONとして不正、または偽値
// （null, {}, [], "", false, 0）であるかを判定します。
func IsEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return true
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return true
	}
	switch x := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

// LookupUsecase は2種類のルックアップをそれぞれ固定容量のLRUメモ越しに提供します。
type LookupUsecase struct {
	alpha      cache.RawSource
	google     cache.RawSource
	alphaMemo  *cache.Memo[json.RawMessage]
	googleMemo *cache.Memo[json.RawMessage]
}

// NewLookupUsecase は LookupUsecase を生成します。alpha と google は検証済みのソース
// （必要に応じて Redis 層でデコレート済み）を想定しています。memoSize が0以下の場合は
// cache.DefaultMemoSize を使用します。
func NewLookupUsecase(alpha, google cache.RawSource, memoSize int) *LookupUsecase {
	return &LookupUsecase{
		alpha:      alpha,
		google:     google,
		alphaMemo:  cache.NewMemo[json.RawMessage](memoSize),
		googleMemo: cache.NewMemo[json.RawMessage](memoSize),
	}
}

// AlphaDaily は銘柄の日足（調整済み）ペイロードを返します。キーはパスパラメータそのものです。
func (u *LookupUsecase) AlphaDaily(ctx context.Context, symbol string) (json.RawMessage, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrEmptyUpstream
	}
	return u.alphaMemo.Do(ctx, symbol, func(ctx context.Context) (json.RawMessage, error) {
		return u.alpha.Fetch(ctx, symbol)
	})
}

// GoogleFinance はフリーテキストのクエリに対する検索結果ペイロードを返します。
func (u *LookupUsecase) GoogleFinance(ctx context.Context, query string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyUpstream
	}
	return u.googleMemo.Do(ctx, query, func(ctx context.Context) (json.RawMessage, error) {
		return u.google.Fetch(ctx, query)
	})
}
