package domain

// RecurrencePattern drives the expansion of a booking into a series
type RecurrencePattern string

const (
	RecurrenceNone     RecurrencePattern = "none"
	RecurrenceWeekly   RecurrencePattern = "weekly"
	RecurrenceBiweekly RecurrencePattern = "biweekly"
	RecurrenceMonthly  RecurrencePattern = "monthly"
)

// ParseRecurrencePattern конвертирует строку в RecurrencePattern. Пустая строка - none.
func ParseRecurrencePattern(s string) (RecurrencePattern, bool) {
	switch RecurrencePattern(s) {
	case "", RecurrenceNone:
		return RecurrenceNone, true
	case RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return RecurrencePattern(s), true
	default:
		return "", false
	}
}

// IsRecurring returns true for patterns that produce more than one occurrence
func (p RecurrencePattern) IsRecurring() bool {
	return p == RecurrenceWeekly || p == RecurrenceBiweekly || p == RecurrenceMonthly
}
