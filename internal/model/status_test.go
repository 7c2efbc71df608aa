package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libratrack/lms/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		returnDate time.Time
		now        time.Time
		wantStatus model.Status
		wantFee    float64
	}{
		{
			name:       "open before due date",
			now:        due.Add(-48 * time.Hour),
			wantStatus: model.StatusBorrowed,
		},
		{
			name:       "open past due date",
			now:        due.Add(time.Hour),
			wantStatus: model.StatusOverdue,
		},
		{
			name:       "returned on time",
			returnDate: due.Add(-time.Hour),
			now:        due,
			wantStatus: model.StatusReturned,
		},
		{
			name:       "returned exactly at due date",
			returnDate: due,
			now:        due,
			wantStatus: model.StatusReturned,
		},
		{
			name:       "returned within the first late day",
			returnDate: due.Add(3 * time.Hour),
			now:        due.Add(3 * time.Hour),
			wantStatus: model.StatusOverdue,
			wantFee:    0,
		},
		{
			name:       "returned three days late",
			returnDate: due.Add(72 * time.Hour),
			now:        due.Add(72 * time.Hour),
			wantStatus: model.StatusOverdue,
			wantFee:    3 * model.LateFeePerDay,
		},
		{
			name:       "returned ten and a half days late",
			returnDate: due.Add(252 * time.Hour),
			now:        due.Add(252 * time.Hour),
			wantStatus: model.StatusOverdue,
			wantFee:    10 * model.LateFeePerDay,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, fee := model.DeriveStatus(due, tt.returnDate, tt.now)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantFee, fee)
		})
	}
}
