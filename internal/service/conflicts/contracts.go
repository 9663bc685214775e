package conflicts

import (
	"context"
	"time"
)

// BookingRepository интерфейс проверки пересечений в хранилище
type BookingRepository interface {
	HasConflict(ctx context.Context, providerID int64, from, to time.Time, excludeID *int64) (bool, error)
}
