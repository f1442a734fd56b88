// Package csvexport はAugmentedSeriesをCSV形式で書き出します。
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guregu/null/v6"

	"stock_analysis/internal/feature/analysis/domain/entity"
)

// TimestampLayout はCSVのtimestamp列の書式です。
const TimestampLayout = "2006-01-02 15:04:05"

var baseHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// FileName は銘柄ごとの出力ファイル名を返します（例: IBM_stock_analysis.csv）。
func FileName(symbol string) string {
	return fmt.Sprintf("%s_stock_analysis.csv", symbol)
}

// Header は書き出すCSVのヘッダー行を返します。
func Header(a *entity.AugmentedSeries) []string {
	return append(append([]string{}, baseHeader...), a.ColumnNames()...)
}

// WriteSeries は時系列と指標列を1行1観測値で書き出します。
// 未定義の指標値は空セルになります。
func WriteSeries(w io.Writer, a *entity.AugmentedSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(a)); err != nil {
		return err
	}

	for i, o := range a.Series {
		rec := []string{
			o.Time.Format(TimestampLayout),
			formatFloat(o.Open),
			formatFloat(o.High),
			formatFloat(o.Low),
			formatFloat(o.Close),
			formatFloat(o.Volume),
		}
		for _, c := range a.Columns {
			if i >= len(c.Values) {
				return fmt.Errorf("column %s has %d values, series has %d", c.Name, len(c.Values), len(a.Series))
			}
			rec = append(rec, formatNullable(c.Values[i]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNullable(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}
