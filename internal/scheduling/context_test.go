package scheduling

import (
	"testing"
	"time"

	"clinic-appointment-service/internal/domain/entity"
)

func mustRules(t *testing.T, days []time.Weekday, holidays []entity.Holiday, capacity int) Rules {
	t.Helper()
	rules, err := NewRules(days, holidays, capacity)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	return rules
}

func TestNewContext_StartDate(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)

	past := date(2025, time.February, 10)
	future := date(2025, time.April, 1)

	tests := []struct {
		name      string
		today     time.Time
		last      *time.Time
		wantStart time.Time
	}{
		{"no previous appointment starts today", date(2025, time.March, 3), nil, date(2025, time.March, 3)},
		{"past appointment starts today", date(2025, time.March, 3), &past, date(2025, time.March, 3)},
		{"future appointment wins over today", date(2025, time.March, 3), &future, date(2025, time.April, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sctx := NewContext(tt.today, tt.last, rules)
			if !sctx.StartDate.Equal(tt.wantStart) {
				t.Fatalf("StartDate = %s, want %s", sctx.StartDate.Format(DateLayout), tt.wantStart.Format(DateLayout))
			}
		})
	}
}

func TestNewContext_NormalizesTimes(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)

	noon := time.Date(2025, time.March, 3, 12, 30, 45, 0, time.UTC)
	sctx := NewContext(noon, nil, rules)

	if !sctx.Today.Equal(date(2025, time.March, 3)) {
		t.Fatalf("Today = %v, want midnight UTC", sctx.Today)
	}
	if !sctx.StartDate.Equal(date(2025, time.March, 3)) {
		t.Fatalf("StartDate = %v, want midnight UTC", sctx.StartDate)
	}
}

func TestWithStartDate(t *testing.T) {
	rules := mustRules(t, []time.Weekday{time.Monday}, nil, 1)
	sctx := NewContext(date(2025, time.March, 3), nil, rules)

	moved := sctx.WithStartDate(date(2025, time.March, 10))

	if !moved.StartDate.Equal(date(2025, time.March, 10)) {
		t.Fatalf("moved StartDate = %s", moved.StartDate.Format(DateLayout))
	}
	if !sctx.StartDate.Equal(date(2025, time.March, 3)) {
		t.Fatalf("original context must not be mutated")
	}
}
