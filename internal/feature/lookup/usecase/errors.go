package usecase

import (
	"errors"
	"fmt"
)

// ErrEmptyUpstream はプロバイダが空・不正なペイロードを返したことを表します。
// 無効な銘柄やAPI上限超過の場合に発生します。
var ErrEmptyUpstream = errors.New("empty upstream response")

// UpstreamError はプロバイダへのリクエスト自体が失敗したことを表します。
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
