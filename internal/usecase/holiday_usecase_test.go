package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newHolidayFixture(t *testing.T, holiday *entity.Holiday) (HolidayUsecase, *fakeHolidayRepo) {
	t.Helper()

	repo := &fakeHolidayRepo{byID: map[uuid.UUID]*entity.Holiday{holiday.ID: holiday}}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewHolidayUsecase(nil, log, repo, &fakeAuditService{}), repo
}

func storedTemporaryHoliday(t *testing.T) *entity.Holiday {
	t.Helper()

	end := testDate(2025, time.June, 3)
	holiday, err := entity.NewHoliday("Renovation", entity.HolidayTypeTemporary, testDate(2025, time.June, 1), &end, false)
	if err != nil {
		t.Fatalf("NewHoliday: %v", err)
	}
	holiday.ID = uuid.New()
	return holiday
}

func TestHolidayUpdate_ClearsEndDate(t *testing.T) {
	holiday := storedTemporaryHoliday(t)
	uc, repo := newHolidayFixture(t, holiday)

	empty := ""
	resp, err := uc.Update(context.Background(), holiday.ID, &dto.UpdateHolidayRequest{EndDate: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if resp.EndDate != "" {
		t.Fatalf("EndDate = %q, want cleared", resp.EndDate)
	}
	if stored := repo.byID[holiday.ID]; stored.EndDate != nil {
		t.Fatalf("stored EndDate = %v, want nil single-day holiday", stored.EndDate)
	}
}

func TestHolidayUpdate_OmittedEndDateKept(t *testing.T) {
	holiday := storedTemporaryHoliday(t)
	uc, repo := newHolidayFixture(t, holiday)

	name := "Deep clean"
	if _, err := uc.Update(context.Background(), holiday.ID, &dto.UpdateHolidayRequest{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored := repo.byID[holiday.ID]
	if stored.Name != name {
		t.Fatalf("Name = %s, want %s", stored.Name, name)
	}
	if stored.EndDate == nil || !stored.EndDate.Equal(testDate(2025, time.June, 3)) {
		t.Fatalf("EndDate = %v, omitting the field must keep it", stored.EndDate)
	}
}

func TestHolidayUpdate_RevalidatesRange(t *testing.T) {
	holiday := storedTemporaryHoliday(t)
	uc, _ := newHolidayFixture(t, holiday)

	// Moving the start past the end must fail the same way creation would.
	badStart := "2025-06-10"
	_, err := uc.Update(context.Background(), holiday.ID, &dto.UpdateHolidayRequest{StartDate: &badStart})
	if !errors.Is(err, entity.ErrHolidayRangeInvalid) {
		t.Fatalf("error = %v, want ErrHolidayRangeInvalid", err)
	}
}
