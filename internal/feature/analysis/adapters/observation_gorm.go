// Package adapters はanalysisフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_analysis/internal/feature/analysis/domain/entity"
	"stock_analysis/internal/feature/analysis/usecase"
)

type observationRepository struct {
	db *gorm.DB
}

var _ usecase.ObservationRepository = (*observationRepository)(nil)

// NewObservationRepository は指定されたDB接続で観測値リポジトリを生成します。
func NewObservationRepository(db *gorm.DB) *observationRepository {
	return &observationRepository{db: db}
}

// ObservationModel は observations テーブルの行です。
// interval / time はPostgreSQLの予約語と衝突するため列名を変えています。
type ObservationModel struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"size:32;not null;uniqueIndex:obs_sym_int_time,priority:1"`
	Interval   string    `gorm:"column:bar_interval;size:16;not null;uniqueIndex:obs_sym_int_time,priority:2"`
	ObservedAt time.Time `gorm:"not null;uniqueIndex:obs_sym_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume float64 `gorm:"not null;default:0"`
}

func (ObservationModel) TableName() string {
	return "observations"
}

func toModel(symbol, interval string, o entity.Observation) ObservationModel {
	return ObservationModel{
		Symbol:     symbol,
		Interval:   interval,
		ObservedAt: o.Time.UTC(),
		Open:       o.Open,
		High:       o.High,
		Low:        o.Low,
		Close:      o.Close,
		Volume:     o.Volume,
	}
}

// UpsertBatch は (symbol, interval, observed_at) をキーに観測値を挿入または更新します。
func (r *observationRepository) UpsertBatch(ctx context.Context, symbol, interval string, series entity.TimeSeries) error {
	if len(series) == 0 {
		return nil
	}
	ms := make([]ObservationModel, 0, len(series))
	for _, o := range series {
		ms = append(ms, toModel(symbol, interval, o))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "bar_interval"}, {Name: "observed_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, 500).Error
}

// FindLatest は最新 limit 件を昇順の時系列として返します。limit が0以下なら全件です。
func (r *observationRepository) FindLatest(ctx context.Context, symbol, interval string, limit int) (entity.TimeSeries, error) {
	var rows []ObservationModel
	q := r.db.WithContext(ctx).
		Where("symbol = ? AND bar_interval = ?", symbol, interval).
		Order("observed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(entity.TimeSeries, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Observation{
			Time:   m.ObservedAt,
			Open:   m.Open,
			High:   m.High,
			Low:    m.Low,
			Close:  m.Close,
			Volume: m.Volume,
		})
	}
	slices.Reverse(out)
	return out, nil
}
