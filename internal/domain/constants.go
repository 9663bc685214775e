package domain

import "time"

// Default configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultAdvanceBookingDays      = 14
	DefaultMinBookingNoticeMinutes = 24 * 60
	DefaultRecurrenceDays          = 90
	DefaultMaxOccurrences          = 104
)

// Business policy
const (
	LeadTime           = 24 * time.Hour
	CancellationWindow = 24 * time.Hour
	TourConflictWindow = 30 * time.Minute
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinAdvanceBookingDays       = 1
	MaxAdvanceBookingDays       = 60
	MinBookingNoticeMinutes     = 24 * 60
	MaxBookingNoticeMinutes     = 30 * 24 * 60
	MaxRecurrenceHorizonDays    = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, блокирующие слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не блокирующие слот
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
