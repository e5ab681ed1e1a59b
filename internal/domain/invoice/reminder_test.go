package invoice

import (
	"testing"
	"time"
)

func TestTierForDaysOverdue(t *testing.T) {
	tests := []struct {
		days int
		want ReminderTier
	}{
		{1, ReminderGentle},
		{15, ReminderGentle},
		{16, ReminderFirm},
		{45, ReminderFirm},
		{46, ReminderFinal},
		{120, ReminderFinal},
	}
	for _, tt := range tests {
		if got := TierForDaysOverdue(tt.days); got != tt.want {
			t.Errorf("TierForDaysOverdue(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)

	inv := Invoice{Status: StatusSent, DueDate: now.AddDate(0, 0, -10)}
	if got := inv.DaysOverdue(now); got != 10 {
		t.Errorf("DaysOverdue = %d, want 10", got)
	}

	future := Invoice{Status: StatusSent, DueDate: now.AddDate(0, 0, 3)}
	if got := future.DaysOverdue(now); got != 0 {
		t.Errorf("future due date: DaysOverdue = %d, want 0", got)
	}

	paid := Invoice{Status: StatusPaid, DueDate: now.AddDate(0, 0, -90)}
	if got := paid.DaysOverdue(now); got != 0 {
		t.Errorf("paid invoice: DaysOverdue = %d, want 0", got)
	}
}
