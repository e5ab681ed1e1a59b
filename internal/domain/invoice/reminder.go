package invoice

// ReminderTier grades an overdue reminder by how late the payment is.
type ReminderTier string

const (
	ReminderGentle ReminderTier = "gentle"
	ReminderFirm   ReminderTier = "firm"
	ReminderFinal  ReminderTier = "final_notice"
)

// TierForDaysOverdue is a step function over days past due:
// up to 15 days gets a gentle nudge, up to 45 a firm reminder,
// anything later a final notice.
func TierForDaysOverdue(days int) ReminderTier {
	switch {
	case days <= 15:
		return ReminderGentle
	case days <= 45:
		return ReminderFirm
	default:
		return ReminderFinal
	}
}
