// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guregu/null/v6"

	"stock_analysis/internal/api"
	"stock_analysis/internal/feature/analysis/domain"
	"stock_analysis/internal/feature/analysis/domain/entity"
	"stock_analysis/internal/feature/analysis/transport/http/dto"
)

// TimeLayout はレスポンスの時刻書式です。
const TimeLayout = "2006-01-02 15:04:05"

// AnalysisUsecase は指標付き時系列を返すユースケースインターフェースです。
type AnalysisUsecase interface {
	ComputeSeries(ctx context.Context, symbol, interval string) (*entity.AugmentedSeries, error)
}

// AnalysisHandler は指標計算結果をJSONで返します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler は AnalysisHandler を生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// GetAnalysis は銘柄の日中足と指標を返します。
//
// エンドポイント例:
// GET /analysis/:symbol?interval=5min&limit=100
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", "5min")
	// 0または不正値は全件
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	series, err := h.uc.ComputeSeries(c.Request.Context(), symbol, interval)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySymbol) || errors.Is(err, domain.ErrInvalidInterval) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(series, limit))
}

// toResponse は末尾 limit 件を行形式に変換します。
func toResponse(a *entity.AugmentedSeries, limit int) dto.AnalysisResponse {
	start := 0
	if limit > 0 && limit < len(a.Series) {
		start = len(a.Series) - limit
	}

	rows := make([]dto.AnalysisRow, 0, len(a.Series)-start)
	for i := start; i < len(a.Series); i++ {
		o := a.Series[i]
		ind := make(map[string]null.Float, len(a.Columns))
		for _, col := range a.Columns {
			ind[col.Name] = col.Values[i]
		}
		rows = append(rows, dto.AnalysisRow{
			Time:       o.Time.Format(TimeLayout),
			Open:       o.Open,
			High:       o.High,
			Low:        o.Low,
			Close:      o.Close,
			Volume:     o.Volume,
			Indicators: ind,
		})
	}

	return dto.AnalysisResponse{
		Symbol:   a.Symbol,
		Interval: a.Interval,
		Columns:  a.ColumnNames(),
		Rows:     rows,
	}
}
