package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/AppointmentService/internal/domain"
)

// Redis подмножество команд *redis.Client, которые использует кеш
type Redis interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Key параметры, от которых зависит рассчитанная доступность
type Key struct {
	ProviderID  int64
	ServiceID   *int64
	DaysAhead   int
	SlotMinutes int
	Today       time.Time
}

// Cache кеш рассчитанной доступности провайдера
//
// Инвалидация через версию: у каждого провайдера есть счётчик
// slots:provider:{id}:version, который входит в ключ записи.
// Invalidate увеличивает счётчик, и старые записи перестают читаться
// (истекают по TTL).
type Cache struct {
	rdb Redis
	ttl time.Duration
}

// NewCache создает кеш доступности
// Методы nil *Cache безопасны: чтение всегда промах, запись и инвалидация ничего не делают
func NewCache(rdb Redis, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get возвращает закешированную доступность и версию провайдера, под которой шло чтение
// found == false, если записи нет. При промахе рассчитанный результат
// сохраняется через Set с этой же версией: если между чтением и записью
// прошла инвалидация, запись попадёт под устаревшую версию и не будет прочитана
func (c *Cache) Get(ctx context.Context, key Key) ([]domain.DayAvailability, int64, bool, error) {
	if c == nil {
		return nil, 0, false, nil
	}

	version, err := c.version(ctx, key.ProviderID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.rdb.Get(ctx, entryKey(key, version)).Bytes()
	if err == redis.Nil {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: Get: %v", ErrCache, err)
	}

	var entries []dayEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return fromEntries(entries), version, true, nil
}

// Set сохраняет рассчитанную доступность на ttl под версией, полученной из Get
func (c *Cache) Set(ctx context.Context, key Key, version int64, days []domain.DayAvailability) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(toEntries(days))
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCache, err)
	}

	if err := c.rdb.Set(ctx, entryKey(key, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCache, err)
	}

	return nil
}

// Invalidate сбрасывает все записи провайдера
func (c *Cache) Invalidate(ctx context.Context, providerID int64) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, versionKey(providerID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate provider=%d: %v", ErrCache, providerID, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, providerID int64) (int64, error) {
	version, err := c.rdb.Get(ctx, versionKey(providerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: version provider=%d: %v", ErrCache, providerID, err)
	}
	return version, nil
}

func versionKey(providerID int64) string {
	return fmt.Sprintf("slots:provider:%d:version", providerID)
}

func entryKey(key Key, version int64) string {
	var serviceID int64
	if key.ServiceID != nil {
		serviceID = *key.ServiceID
	}
	return fmt.Sprintf("slots:provider:%d:v%d:service:%d:days:%d:slot:%d:from:%s",
		key.ProviderID, version, serviceID, key.DaysAhead, key.SlotMinutes, key.Today.Format(domain.DateFormat))
}

type slotEntry struct {
	StartTime time.Time `json:"start_time"`
	Available bool      `json:"available"`
}

type dayEntry struct {
	Date  time.Time   `json:"date"`
	Slots []slotEntry `json:"slots"`
}

func toEntries(days []domain.DayAvailability) []dayEntry {
	entries := make([]dayEntry, len(days))
	for i, day := range days {
		slots := make([]slotEntry, len(day.Slots))
		for j, s := range day.Slots {
			slots[j] = slotEntry{StartTime: s.StartTime, Available: s.Available}
		}
		entries[i] = dayEntry{Date: day.Date, Slots: slots}
	}
	return entries
}

func fromEntries(entries []dayEntry) []domain.DayAvailability {
	days := make([]domain.DayAvailability, len(entries))
	for i, e := range entries {
		slots := make([]domain.Slot, len(e.Slots))
		for j, s := range e.Slots {
			slots[j] = domain.Slot{StartTime: s.StartTime, Available: s.Available}
		}
		days[i] = domain.DayAvailability{Date: e.Date, Slots: slots}
	}
	return days
}
