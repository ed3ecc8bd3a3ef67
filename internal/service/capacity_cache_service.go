package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrDateFull is returned when a date has no remaining capacity at commit time.
var ErrDateFull = errors.New("date is at daily capacity")

// reserveSlotScript atomically claims one slot on a date. The engine's date
// walk already checked capacity against the database, but a concurrent
// request may have taken the last slot between check and commit; the script
// closes that window inside Redis.
//
// Logic:
// 1. INCR the per-date counter
// 2. If result > capacity -> DECR back (rollback) and return -1 (full)
// 3. Otherwise return the new count
var reserveSlotScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	local capacity = tonumber(ARGV[1])
	if count > capacity then
		redis.call('DECR', KEYS[1])
		return -1
	end
	return count
`)

// releaseSlotScript frees one slot without ever going negative.
var releaseSlotScript = redis.NewScript(`
	local count = tonumber(redis.call('GET', KEYS[1]) or '0')
	if count > 0 then
		return redis.call('DECR', KEYS[1])
	end
	return 0
`)

const (
	// Redis key prefix for per-date appointment counters
	RedisDateCountKeyPrefix = "appointments:count:"

	// Batch size for startup sync
	syncBatchSize = 500

	// Interval for cleaning up stale per-date mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// CapacityCacheService keeps a Redis counter of non-cancelled appointments
// per attend date. The scheduling usecase reserves a slot on the chosen date
// before inserting the row and compensates (releases) if the insert fails,
// so two concurrent bookings can never push a date past capacity even though
// the date walk itself reads a possibly-stale count.
//
// Counters are re-synced from PostgreSQL on startup and expire the day after
// their date passes.
type CapacityCacheService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger

	// Per-date mutex for sync operations
	dateMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// dateCountRow holds sync data queried from the database
type dateCountRow struct {
	AttendDate time.Time
	Count      int
}

// NewCapacityCacheService creates the service and starts the background
// mutex cleanup goroutine. Call Stop() during graceful shutdown.
func NewCapacityCacheService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *CapacityCacheService {
	svc := &CapacityCacheService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *CapacityCacheService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("CapacityCacheService stopped")
	}
}

// SyncOnStartup rebuilds every future date counter from PostgreSQL. Should be
// called before accepting traffic, and again for disaster recovery when the
// Redis state is suspect.
func (s *CapacityCacheService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting capacity counter re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	offset := 0
	totalSynced := 0

	for {
		var rows []dateCountRow

		err := s.db.WithContext(ctx).Model(&entity.Appointment{}).
			Select("attend_date, COUNT(*) as count").
			Where("attend_date >= ? AND status != ?", today, entity.AppointmentStatusCancelled).
			Group("attend_date").
			Order("attend_date").
			Limit(syncBatchSize).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			s.log.Errorf("Failed to query date counts at offset %d: %+v", offset, err)
			return fmt.Errorf("query date counts at offset %d: %w", offset, err)
		}

		if len(rows) == 0 {
			if offset == 0 {
				s.log.Info("No future appointments found for sync")
			}
			break
		}

		// New pipeline per batch keeps memory flat on large calendars.
		pipe := s.redisClient.TxPipeline()
		for _, row := range rows {
			key := s.dateKey(row.AttendDate)
			pipe.Set(ctx, key, row.Count, s.calculateTTL(row.AttendDate))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(rows)
		if len(rows) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Capacity counter re-sync completed: %d dates synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// SyncDate overwrites one date counter with a fresh authoritative recount.
// Called when an individual release is lost so the cache converges instead of
// leaking a phantom booking. The recount runs inside the per-date mutex so two
// concurrent syncs cannot interleave a stale count over a fresh one.
func (s *CapacityCacheService) SyncDate(ctx context.Context, date time.Time, recount func(ctx context.Context, date time.Time) (int, error)) error {
	mt := s.getDateMutex(date)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	count, err := recount(ctx, date)
	if err != nil {
		s.log.Warnf("Failed to recount appointments for %s: %+v", date.Format("2006-01-02"), err)
		return fmt.Errorf("recount appointments for %s: %w", date.Format("2006-01-02"), err)
	}

	key := s.dateKey(date)
	if err := s.redisClient.Set(ctx, key, count, s.calculateTTL(date)).Err(); err != nil {
		s.log.Warnf("Failed to sync counter for %s: %+v", date.Format("2006-01-02"), err)
		return fmt.Errorf("redis sync for %s: %w", date.Format("2006-01-02"), err)
	}

	s.log.Debugf("Synced date %s: count=%d", date.Format("2006-01-02"), count)
	return nil
}

// ReserveSlot atomically claims one slot on date if fewer than capacity are
// taken. Returns ErrDateFull when the date filled up between the engine's
// capacity check and this commit. No mutex in this path: the Lua script is
// the serialization point.
func (s *CapacityCacheService) ReserveSlot(ctx context.Context, date time.Time, capacity int) error {
	key := s.dateKey(date)

	result, err := reserveSlotScript.Run(ctx, s.redisClient, []string{key}, capacity).Int()
	if err != nil {
		s.log.Warnf("Failed Lua reserve for %s: %+v", date.Format("2006-01-02"), err)
		return fmt.Errorf("lua reserve for %s: %w", date.Format("2006-01-02"), err)
	}
	if result == -1 {
		return ErrDateFull
	}

	// Counter may have been created by this reservation; make sure it expires.
	if ttl := s.calculateTTL(date); ttl > 0 {
		s.redisClient.Expire(ctx, key, ttl)
	}

	s.log.Debugf("Reserved slot on %s: count=%d", date.Format("2006-01-02"), result)
	return nil
}

// ReleaseSlot frees one slot on date. Used as compensation when the database
// insert fails after a reservation, and when an appointment is cancelled or
// moved off a date.
func (s *CapacityCacheService) ReleaseSlot(ctx context.Context, date time.Time) error {
	key := s.dateKey(date)

	if err := releaseSlotScript.Run(ctx, s.redisClient, []string{key}).Err(); err != nil {
		s.log.Warnf("Failed to release slot for %s: %+v", date.Format("2006-01-02"), err)
		return fmt.Errorf("release slot for %s: %w", date.Format("2006-01-02"), err)
	}

	s.log.Debugf("Released slot on %s", date.Format("2006-01-02"))
	return nil
}

// countForDate reads the cached counter for a date. A missing key reads as
// zero, matching an untouched date.
func (s *CapacityCacheService) countForDate(ctx context.Context, date time.Time) (int, error) {
	count, err := s.redisClient.Get(ctx, s.dateKey(date)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get counter for %s: %w", date.Format("2006-01-02"), err)
	}
	return count, nil
}

func (s *CapacityCacheService) dateKey(date time.Time) string {
	return RedisDateCountKeyPrefix + date.Format("2006-01-02")
}

// getDateMutex returns the mutex for a specific date
func (s *CapacityCacheService) getDateMutex(date time.Time) *mutexWithTimestamp {
	mt, _ := s.dateMu.LoadOrStore(date.Format("2006-01-02"), &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *CapacityCacheService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety;
// lastUsed is re-checked inside the lock so a concurrent user cannot lose
// its mutex.
func (s *CapacityCacheService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.dateMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.dateMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

// calculateTTL returns a TTL expiring the day after the date passes
func (s *CapacityCacheService) calculateTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 1)
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		// Past date, short TTL for cleanup
		return 1 * time.Minute
	}
	return ttl
}
