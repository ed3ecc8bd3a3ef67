package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-appointment-service/internal/domain/entity"
)

func mustFinder(t *testing.T, horizonDays int) *Finder {
	t.Helper()
	f, err := NewFinder(horizonDays)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}
	return f
}

// countsByDate serves pre-seeded counts and records the order of probes.
func countsByDate(counts map[string]int, probed *[]string) CountForDateFunc {
	return func(_ context.Context, d time.Time) (int, error) {
		key := d.Format(DateLayout)
		if probed != nil {
			*probed = append(*probed, key)
		}
		return counts[key], nil
	}
}

func TestNextValidDate_FirstFreeDate(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, nil, 2)
	sctx := NewContext(date(2025, time.March, 3), nil, rules) // Monday

	got, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(map[string]int{
		"2025-03-03": 1,
	}, nil))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}
	if !got.Equal(date(2025, time.March, 3)) {
		t.Fatalf("got %s, want 2025-03-03", got.Format(DateLayout))
	}
}

func TestNextValidDate_SkipsFullDate(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, nil, 2)
	sctx := NewContext(date(2025, time.March, 3), nil, rules) // Monday at capacity

	got, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(map[string]int{
		"2025-03-03": 2,
	}, nil))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}
	if !got.Equal(date(2025, time.March, 4)) {
		t.Fatalf("got %s, want 2025-03-04", got.Format(DateLayout))
	}
}

func TestNextValidDate_FullThursdaySkipsWeekend(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}, nil, 2)
	sctx := NewContext(date(2025, time.March, 6), nil, rules) // Thursday, full

	var probed []string
	got, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(map[string]int{
		"2025-03-06": 2,
	}, &probed))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}
	if !got.Equal(date(2025, time.March, 10)) {
		t.Fatalf("got %s, want Monday 2025-03-10", got.Format(DateLayout))
	}

	// Friday through Sunday are disallowed weekdays and must be rejected
	// without a count query.
	want := []string{"2025-03-06", "2025-03-10"}
	if len(probed) != len(want) {
		t.Fatalf("probed %v, want %v", probed, want)
	}
	for i := range want {
		if probed[i] != want[i] {
			t.Fatalf("probed %v, want %v", probed, want)
		}
	}
}

func TestNextValidDate_SkipsFixedHoliday(t *testing.T) {
	holidays := []entity.Holiday{fixedHoliday("Christmas", time.December, 25)}
	rules := mustRules(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, holidays, 10)
	sctx := NewContext(date(2025, time.December, 25), nil, rules) // Thursday

	got, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(nil, nil))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}
	if !got.Equal(date(2025, time.December, 26)) {
		t.Fatalf("got %s, want 2025-12-26", got.Format(DateLayout))
	}
}

func TestNextValidDate_SkipsTemporaryRange(t *testing.T) {
	end := date(2025, time.June, 3)
	holidays := []entity.Holiday{temporaryHoliday("Renovation", date(2025, time.June, 1), &end)}
	rules := mustRules(t, []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	}, holidays, 5)
	sctx := NewContext(date(2025, time.June, 1), nil, rules) // Sunday, range start

	got, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(nil, nil))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}
	if !got.Equal(date(2025, time.June, 4)) {
		t.Fatalf("got %s, want first day after the range", got.Format(DateLayout))
	}
}

func TestNextValidDate_ProbesAscending(t *testing.T) {
	rules := mustRules(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, nil, 1)
	sctx := NewContext(date(2025, time.March, 3), nil, rules)

	var probed []string
	_, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, countsByDate(map[string]int{
		"2025-03-03": 1,
		"2025-03-04": 1,
		"2025-03-05": 1,
	}, &probed))
	if err != nil {
		t.Fatalf("NextValidDate: %v", err)
	}

	for i := 1; i < len(probed); i++ {
		if probed[i] <= probed[i-1] {
			t.Fatalf("probe order not strictly ascending: %v", probed)
		}
	}
}

func TestNextValidDate_LaterStartNeverEarlierResult(t *testing.T) {
	rules := mustRules(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, nil, 1)
	counts := map[string]int{
		"2025-03-03": 1,
		"2025-03-04": 1,
	}

	finder := mustFinder(t, DefaultSearchHorizonDays)

	early, err := finder.NextValidDate(context.Background(),
		NewContext(date(2025, time.March, 3), nil, rules), countsByDate(counts, nil))
	if err != nil {
		t.Fatalf("NextValidDate (early start): %v", err)
	}

	late, err := finder.NextValidDate(context.Background(),
		NewContext(date(2025, time.March, 4), nil, rules), countsByDate(counts, nil))
	if err != nil {
		t.Fatalf("NextValidDate (late start): %v", err)
	}

	if late.Before(early) {
		t.Fatalf("later start produced earlier result: %s < %s",
			late.Format(DateLayout), early.Format(DateLayout))
	}
}

func TestNextValidDate_HorizonExhausted(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)
	sctx := NewContext(date(2025, time.March, 3), nil, rules)

	// Every Monday in a short horizon is full.
	full := func(_ context.Context, _ time.Time) (int, error) { return 1, nil }

	_, err := mustFinder(t, 14).NextValidDate(context.Background(), sctx, full)
	if err == nil {
		t.Fatalf("expected horizon exhaustion error")
	}

	var noDates *NoAvailableDatesError
	if !errors.As(err, &noDates) {
		t.Fatalf("error = %T, want *NoAvailableDatesError", err)
	}
	if noDates.HorizonDays != 14 {
		t.Fatalf("HorizonDays = %d, want 14", noDates.HorizonDays)
	}
	if noDates.DailyCapacity != 1 {
		t.Fatalf("DailyCapacity = %d, want 1", noDates.DailyCapacity)
	}
}

func TestNextValidDate_ContextCancelled(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)
	sctx := NewContext(date(2025, time.March, 3), nil, rules)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(ctx, sctx, countsByDate(nil, nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestNextValidDate_CountError(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)
	sctx := NewContext(date(2025, time.March, 3), nil, rules)

	countErr := errors.New("db down")
	failing := func(_ context.Context, _ time.Time) (int, error) { return 0, countErr }

	_, err := mustFinder(t, DefaultSearchHorizonDays).NextValidDate(context.Background(), sctx, failing)
	if !errors.Is(err, countErr) {
		t.Fatalf("error = %v, want wrapped count error", err)
	}
}

func TestNewRules_Validation(t *testing.T) {
	tests := []struct {
		name     string
		days     []time.Weekday
		capacity int
		wantErr  error
	}{
		{"no allowed days", nil, 5, ErrNoAllowedDays},
		{"zero capacity", []time.Weekday{time.Monday}, 0, ErrInvalidCapacity},
		{"negative capacity", []time.Weekday{time.Monday}, -1, ErrInvalidCapacity},
		{"duplicate weekday", []time.Weekday{time.Monday, time.Monday}, 5, ErrDuplicateWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRules(tt.days, nil, tt.capacity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
