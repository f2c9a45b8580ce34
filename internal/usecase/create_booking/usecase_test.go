package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// mockBookingRepo мок репозитория бронирований.
// failStaffIDs задает сотрудников, вставка для которых возвращает
// конфликт слота.
type mockBookingRepo struct {
	bookings     []*domain.Booking
	failStaffIDs map[int64]bool
	created      []*domain.Booking
	createErr    error
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.failStaffIDs[b.StaffID] {
		return nil, bookingRepo.ErrSlotTaken
	}
	b.ID = int64(len(m.created) + 1)
	m.created = append(m.created, b)
	return b, nil
}

func (m *mockBookingRepo) ListByDate(_ context.Context, _ time.Time, _ []domain.BookingStatus) ([]*domain.Booking, error) {
	return m.bookings, nil
}

// mockCatalogRepo мок репозитория справочных данных
type mockCatalogRepo struct {
	services map[int64]*domain.Service
	staff    map[int64]*domain.Staff
	capable  map[int64]bool
	list     []*domain.Staff
}

func (m *mockCatalogRepo) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := m.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return service, nil
}

func (m *mockCatalogRepo) GetStaffByID(_ context.Context, id int64) (*domain.Staff, error) {
	staff, ok := m.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return staff, nil
}

func (m *mockCatalogRepo) ListActiveStaffForService(_ context.Context, _ int64) ([]*domain.Staff, error) {
	return m.list, nil
}

func (m *mockCatalogRepo) IsStaffCapable(_ context.Context, staffID, _ int64) (bool, error) {
	return m.capable[staffID], nil
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

var (
	testNow      = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	testDate     = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	testSchedule = domain.Schedule{OpenTime: "09:00", CloseTime: "17:00", StepMinutes: 30}
)

func newTestCatalog() *mockCatalogRepo {
	return &mockCatalogRepo{
		services: map[int64]*domain.Service{
			3: {ID: 3, Name: "Massage", DurationMinutes: 60, Price: 50, IsActive: true},
			4: {ID: 4, Name: "Retired", DurationMinutes: 30, IsActive: false},
		},
		staff: map[int64]*domain.Staff{
			7: {ID: 7, Name: "Anna", IsActive: true},
			8: {ID: 8, Name: "Boris", IsActive: true},
			9: {ID: 9, Name: "Inactive", IsActive: false},
		},
		capable: map[int64]bool{7: true, 8: true},
		list:    []*domain.Staff{{ID: 7, IsActive: true}, {ID: 8, IsActive: true}},
	}
}

func newTestUseCase(repo *mockBookingRepo, catalog *mockCatalogRepo) *UseCase {
	uc := NewUseCase(repo, catalog, testSchedule, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		CustomerID:    42,
		CustomerEmail: "customer@example.com",
		CustomerName:  "Ivan",
		ServiceID:     3,
		Date:          testDate,
		StartTime:     "10:00",
	}
}

func TestUseCase_Execute_AutoAssignsFirstFreeStaff(t *testing.T) {
	repo := &mockBookingRepo{}
	uc := newTestUseCase(repo, newTestCatalog())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.StaffID, "first capable staff wins")
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Massage", resp.ServiceName)
	assert.Equal(t, 50.0, resp.ServicePrice)
	assert.Equal(t, "customer@example.com", resp.CustomerEmail)
}

func TestUseCase_Execute_AutoAssignSkipsBusyStaff(t *testing.T) {
	repo := &mockBookingRepo{
		bookings: []*domain.Booking{
			{StaffID: 7, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	uc := newTestUseCase(repo, newTestCatalog())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.StaffID)
}

func TestUseCase_Execute_AutoAssignRetriesOnConcurrentConflict(t *testing.T) {
	// Снимок бронирований пуст, но вставка для первого кандидата
	// конфликтует: параллельный запрос успел раньше. Берем следующего.
	repo := &mockBookingRepo{failStaffIDs: map[int64]bool{7: true}}
	uc := newTestUseCase(repo, newTestCatalog())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.StaffID)
}

func TestUseCase_Execute_AllStaffBusyReturnsConflict(t *testing.T) {
	repo := &mockBookingRepo{failStaffIDs: map[int64]bool{7: true, 8: true}}
	uc := newTestUseCase(repo, newTestCatalog())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_ExplicitStaffConflictDoesNotRetry(t *testing.T) {
	repo := &mockBookingRepo{failStaffIDs: map[int64]bool{7: true}}
	uc := newTestUseCase(repo, newTestCatalog())

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(7))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, repo.created, "no booking must be created for another staff")
}

func TestUseCase_Execute_ExplicitStaffChecks(t *testing.T) {
	tests := []struct {
		name    string
		staffID int64
		wantErr error
	}{
		{name: "unknown staff", staffID: 100, wantErr: ErrStaffNotFound},
		{name: "inactive staff", staffID: 9, wantErr: ErrStaffNotFound},
		{name: "staff without capability", staffID: 8, wantErr: nil},
	}

	catalog := newTestCatalog()
	catalog.capable[8] = false

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&mockBookingRepo{}, catalog)

			req := validRequest()
			req.StaffID = ptr.Ptr(tt.staffID)

			_, err := uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, ErrStaffNotCapable)
			}
		})
	}
}

func TestUseCase_Execute_ServiceValidation(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, newTestCatalog())

	req := validRequest()
	req.ServiceID = 99
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = validRequest()
	req.ServiceID = 4
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestUseCase_Execute_DateAndTimeValidation(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		startTime string
		wantErr   error
	}{
		{name: "past date", date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), startTime: "10:00", wantErr: ErrInvalidDate},
		{name: "today elapsed time", date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), startTime: "07:00", wantErr: ErrInvalidTimeSlot},
		{name: "off grid time", date: testDate, startTime: "10:15", wantErr: ErrInvalidTimeSlot},
		{name: "before opening", date: testDate, startTime: "08:30", wantErr: ErrInvalidTimeSlot},
		{name: "does not fit before closing", date: testDate, startTime: "16:30", wantErr: ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&mockBookingRepo{}, newTestCatalog())

			req := validRequest()
			req.Date = tt.date
			req.StartTime = types.TimeString(tt.startTime)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_InputValidation(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, newTestCatalog())

	req := validRequest()
	req.CustomerID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = "25:99"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
