package csvexport

import (
	"bytes"
	"errors"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_analysis/internal/feature/reports/domain/entity"
)

func TestWriteTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table *entity.Table
		want  string
	}{
		{
			name: "nulls become empty cells",
			table: &entity.Table{
				Columns: []string{"fiscalDateEnding", "netIncome", "note"},
				Rows: [][]null.String{
					{null.StringFrom("2023-12-31"), null.StringFrom("1640000000"), {}},
					{null.StringFrom("2022-12-31"), {}, null.StringFrom("restated, twice")},
				},
			},
			want: "fiscalDateEnding,netIncome,note\n2023-12-31,1640000000,\n2022-12-31,,\"restated, twice\"\n",
		},
		{
			name:  "empty table",
			table: &entity.Table{Columns: []string{}},
			want:  "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, WriteTable(&buf, tt.table))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteTable_Nil(t *testing.T) {
	t.Parallel()

	err := WriteTable(&bytes.Buffer{}, nil)
	assert.True(t, errors.Is(err, ErrNilTable))
}
