// Package domain はanalysisフィーチャーのドメイン共通エラーを定義します。
package domain

import "errors"

var (
	// ErrInvalidWindow は期間パラメータが1未満の場合に返されます。
	ErrInvalidWindow = errors.New("window must be a positive integer")
	// ErrLengthMismatch は終値と出来高の列の長さが一致しない場合に返されます。
	ErrLengthMismatch = errors.New("close and volume columns differ in length")
	// ErrEmptySymbol は銘柄コードが空の場合に返されます。
	ErrEmptySymbol = errors.New("symbol is required")
	// ErrInvalidInterval は未対応の時間足が指定された場合に返されます。
	ErrInvalidInterval = errors.New("unsupported interval")
)
