package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// mockBookingRepo мок репозитория бронирований
type mockBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (m *mockBookingRepo) ListByDate(_ context.Context, _ time.Time, _ []domain.BookingStatus) ([]*domain.Booking, error) {
	return m.bookings, m.err
}

// mockCatalogRepo мок репозитория справочных данных
type mockCatalogRepo struct {
	service    *domain.Service
	serviceErr error
	staff      []*domain.Staff
	staffErr   error
}

func (m *mockCatalogRepo) GetServiceByID(_ context.Context, _ int64) (*domain.Service, error) {
	return m.service, m.serviceErr
}

func (m *mockCatalogRepo) ListActiveStaffForService(_ context.Context, _ int64) ([]*domain.Staff, error) {
	return m.staff, m.staffErr
}

func (m *mockCatalogRepo) ListActiveStaff(_ context.Context) ([]*domain.Staff, error) {
	return m.staff, m.staffErr
}

// fixedTime провайдер фиксированного времени
type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testSchedule = domain.Schedule{OpenTime: "09:00", CloseTime: "17:00", StepMinutes: 60}

func testDate(day int) time.Time {
	return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(bookingRepo *mockBookingRepo, catalogRepo *mockCatalogRepo, now time.Time) *UseCase {
	return NewUseCase(bookingRepo, catalogRepo, testSchedule, &fixedTime{now: now}, nopLogger{})
}

func TestUseCase_Execute_SingleBookingBlocksItsSlot(t *testing.T) {
	// Одна услуга 60 минут, один сотрудник, одно подтвержденное
	// бронирование на 10:00. Недоступен только слот 10:00.
	bookingRepo := &mockBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, StaffID: 7, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	catalogRepo := &mockCatalogRepo{
		service: &domain.Service{ID: 3, Name: "Massage", DurationMinutes: 60, IsActive: true},
		staff:   []*domain.Staff{{ID: 7, Name: "Anna", IsActive: true}},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(bookingRepo, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	// Сетка 09:00..16:00 с шагом 60 минут
	require.Len(t, resp.Slots, 8)

	for _, slot := range resp.Slots {
		if slot.StartTime.Equal("10:00") {
			assert.False(t, slot.Available, "booked slot must be unavailable")
		} else {
			assert.True(t, slot.Available, "slot %s must be available", slot.StartTime)
		}
	}
}

func TestUseCase_Execute_CancelledBookingFreesSlot(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, StaffID: 7, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
		},
	}
	catalogRepo := &mockCatalogRepo{
		service: &domain.Service{ID: 3, DurationMinutes: 60, IsActive: true},
		staff:   []*domain.Staff{{ID: 7, IsActive: true}},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(bookingRepo, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s must be available after cancellation", slot.StartTime)
	}
}

func TestUseCase_Execute_SecondStaffKeepsSlotAvailable(t *testing.T) {
	// Слоты анонимны по сотруднику: пока хотя бы один кандидат
	// свободен, слот доступен
	bookingRepo := &mockBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, StaffID: 7, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	catalogRepo := &mockCatalogRepo{
		service: &domain.Service{ID: 3, DurationMinutes: 60, IsActive: true},
		staff:   []*domain.Staff{{ID: 7, IsActive: true}, {ID: 8, IsActive: true}},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(bookingRepo, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s must stay available with a free second staff", slot.StartTime)
	}
}

func TestUseCase_Execute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{}, time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{Date: testDate(2)})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUseCase_Execute_TodayFiltersElapsedSlots(t *testing.T) {
	catalogRepo := &mockCatalogRepo{
		staff: []*domain.Staff{{ID: 7, IsActive: true}},
	}

	// Сегодня 12:30: слоты 09:00..12:00 уже прошли
	now := time.Date(2026, 9, 2, 12, 30, 0, 0, time.UTC)
	uc := newTestUseCase(&mockBookingRepo{}, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2)})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.False(t, slot.StartTime.IsBefore(types.TimeString("12:30")),
			"slot %s is already in the past", slot.StartTime)
	}
}

func TestUseCase_Execute_UnknownServiceYieldsEmpty(t *testing.T) {
	catalogRepo := &mockCatalogRepo{serviceErr: catalog.ErrServiceNotFound}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&mockBookingRepo{}, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(99))})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_InactiveServiceYieldsEmpty(t *testing.T) {
	catalogRepo := &mockCatalogRepo{
		service: &domain.Service{ID: 3, DurationMinutes: 60, IsActive: false},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&mockBookingRepo{}, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_NoStaffMarksAllUnavailable(t *testing.T) {
	catalogRepo := &mockCatalogRepo{
		service: &domain.Service{ID: 3, DurationMinutes: 60, IsActive: true},
		staff:   []*domain.Staff{},
	}

	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&mockBookingRepo{}, catalogRepo, now)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate(2), ServiceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.False(t, slot.Available)
	}
}
