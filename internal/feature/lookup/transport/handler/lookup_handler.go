// Package handler はlookupフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_analysis/internal/api"
	"stock_analysis/internal/feature/lookup/usecase"
)

// MsgInvalidSymbol は空・不正なプロバイダ応答に対するエラーメッセージです。
const MsgInvalidSymbol = "Invalid stock symbol or API limit exceeded."

// LookupUsecase はルックアップ操作のユースケースインターフェースを定義します。
type LookupUsecase interface {
	AlphaDaily(ctx context.Context, symbol string) (json.RawMessage, error)
	GoogleFinance(ctx context.Context, query string) (json.RawMessage, error)
}

// LookupHandler はプロバイダの生ペイロードをそのまま返します。
type LookupHandler struct {
	uc LookupUsecase
}

// NewLookupHandler は LookupHandler を生成します。
func NewLookupHandler(uc LookupUsecase) *LookupHandler {
	return &LookupHandler{uc: uc}
}

// ParamKey は両ルートで共有するパスパラメータ名です。
// gin は同じ位置に異なるワイルドカード名を登録できません。
const ParamKey = "key"

// Alpha は GET /stock/:key/alpha を処理します。:key は銘柄コードです。
func (h *LookupHandler) Alpha(c *gin.Context) {
	body, err := h.uc.AlphaDaily(c.Request.Context(), c.Param(ParamKey))
	h.respond(c, body, err)
}

// Google は GET /stock/:key/google を処理します。:key はフリーテキストのクエリです。
func (h *LookupHandler) Google(c *gin.Context) {
	body, err := h.uc.GoogleFinance(c.Request.Context(), c.Param(ParamKey))
	h.respond(c, body, err)
}

func (h *LookupHandler) respond(c *gin.Context, body json.RawMessage, err error) {
	if err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	if errors.Is(err, usecase.ErrEmptyUpstream) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: MsgInvalidSymbol})
		return
	}

	cause := err
	var up *usecase.UpstreamError
	if errors.As(err, &up) {
		cause = up.Err
	}
	slog.Error("lookup failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "API request failed: " + cause.Error()})
}
