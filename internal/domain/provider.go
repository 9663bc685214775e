package domain

import (
	"time"

	"github.com/m04kA/AppointmentService/pkg/types"
)

// ProviderStatus статус провайдера в каталоге
type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderApproved  ProviderStatus = "approved"
	ProviderActive    ProviderStatus = "active"
	ProviderSuspended ProviderStatus = "suspended"
	ProviderRejected  ProviderStatus = "rejected"
)

// IsBookable returns true if the provider accepts bookings
func (s ProviderStatus) IsBookable() bool {
	return s == ProviderApproved || s == ProviderActive
}

// OperatingProfile часы и дни работы провайдера
type OperatingProfile struct {
	OpeningTime   types.TimeString
	ClosingTime   types.TimeString
	OperatingDays []time.Weekday
}

// IsOpenOn returns true if the weekday is one of the operating days
func (p OperatingProfile) IsOpenOn(day time.Weekday) bool {
	for _, d := range p.OperatingDays {
		if d == day {
			return true
		}
	}
	return false
}

var weekdayTokens = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseWeekday конвертирует аббревиатуру (Mon..Sun) в time.Weekday
func ParseWeekday(token string) (time.Weekday, bool) {
	day, ok := weekdayTokens[token]
	return day, ok
}

// WeekdayToken конвертирует time.Weekday в аббревиатуру (Mon..Sun)
func WeekdayToken(day time.Weekday) string {
	return day.String()[:3]
}
