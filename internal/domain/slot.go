package domain

import "time"

// Slot candidate start time
type Slot struct {
	StartTime time.Time
	Available bool
}

// DayAvailability slots of one projected day. Derived view, never persisted.
type DayAvailability struct {
	Date  time.Time
	Slots []Slot
}

// AvailableCount returns the number of bookable slots
func (d *DayAvailability) AvailableCount() int {
	count := 0
	for _, s := range d.Slots {
		if s.Available {
			count++
		}
	}
	return count
}

// HasSlots returns true if the provider works on this day
func (d *DayAvailability) HasSlots() bool {
	return len(d.Slots) > 0
}
