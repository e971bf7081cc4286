package mapper

import (
	"testing"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		actual int
		target float64
		want   string
	}{
		{0, 0, "0.0"},
		{5, 0, "0.0"},
		{3, 3, "100.0"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{12, 10, "120.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatProgress(tt.actual, tt.target))
	}
}

func TestToReferences(t *testing.T) {
	assert.Equal(t, domain.Reference{ID: 10, Name: "Sales"}, ToPipelineReference(&domain.Pipeline{ID: 10, Name: "Sales"}))
	assert.Equal(t, domain.Reference{ID: 7, Name: "Aziz"}, ToManagerReference(&domain.User{ID: 7, Name: "Aziz"}))
}

func TestToPlanStatus(t *testing.T) {
	st := ToPlanStatus(&domain.Plan{ManagerID: "7", TargetDeals: 10})

	assert.Equal(t, "7", st.ManagerID)
	assert.Equal(t, "0.0", st.ProgressDeals)
	assert.Zero(t, st.ActualDeals)
}
