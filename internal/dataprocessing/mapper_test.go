package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salama/pkg/contracts/domain"
)

func TestColumnMappingApply(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		columns []string
		want    []string
	}{
		{
			name:    "exact labels renamed",
			mapping: ColumnMapping{"تاريخ الزيارة": domain.ColDate, "الوضع": domain.ColStatus},
			columns: []string{"تاريخ_الزيارة", "الوضع", "الموقع"},
			want:    []string{domain.ColDate, domain.ColStatus, "الموقع"},
		},
		{
			name:    "matching is case and spacing insensitive",
			mapping: ColumnMapping{"Inspection   Date": domain.ColDate},
			columns: []string{"inspection_date"},
			want:    []string{domain.ColDate},
		},
		{
			name:    "trailing whitespace in mapping key tolerated",
			mapping: ColumnMapping{"الحالة \n": domain.ColStatus},
			columns: []string{"الحالة"},
			want:    []string{domain.ColStatus},
		},
		{
			name:    "unmapped columns pass through",
			mapping: ColumnMapping{"القسم": domain.ColDepartment},
			columns: []string{"رقم_السجل", "ملاحظات"},
			want:    []string{"رقم_السجل", "ملاحظات"},
		},
		{
			name:    "empty mapping is a no-op",
			mapping: ColumnMapping{},
			columns: []string{"a", "b"},
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(tt.columns)
			tt.mapping.Apply(table)
			assert.Equal(t, tt.want, table.Columns)
		})
	}
}
