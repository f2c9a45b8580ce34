package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// mockBookingRepo мок репозитория, хранит бронирования в памяти
type mockBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newMockBookingRepo(bookings ...*domain.Booking) *mockBookingRepo {
	m := &mockBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return booking, nil
}

func (m *mockBookingRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	booking, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (m *mockBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	booking, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = domain.StatusCancelled
	if reason != "" {
		booking.CancellationReason = &reason
	}
	now := time.Now()
	booking.CancelledAt = &now
	return nil
}

// mockNotifyClient мок клиента уведомлений
type mockNotifyClient struct {
	sent    []*notifyservice.SendRequest
	sendErr error
}

func (m *mockNotifyClient) Send(_ context.Context, req *notifyservice.SendRequest) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, req)
	return nil
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

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func futureBooking(id, customerID int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		CustomerID:    customerID,
		ServiceID:     3,
		StaffID:       7,
		BookingDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		Status:        status,
		ServiceName:   "Massage",
		CustomerName:  "Ivan",
		CustomerEmail: "ivan@example.com",
	}
}

func pastBooking(id, customerID int64, status domain.BookingStatus) *domain.Booking {
	b := futureBooking(id, customerID, status)
	b.BookingDate = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return b
}

func newTestService(repo *mockBookingRepo, client *mockNotifyClient) *Service {
	svc := NewService(repo, client, nopLogger{})
	svc.timeProvider = &fixedTime{now: testNow}
	return svc
}

func TestService_GetByID_AccessControl(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	svc := newTestService(repo, &mockNotifyClient{})

	// Владелец видит своё бронирование
	resp, err := svc.GetByID(context.Background(), 1, 42, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Чужой клиент - нет
	_, err = svc.GetByID(context.Background(), 1, 99, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор видит любое
	resp, err = svc.GetByID(context.Background(), 1, 99, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(newMockBookingRepo(), &mockNotifyClient{})

	_, err := svc.GetByID(context.Background(), 100, 42, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetUserBookings(t *testing.T) {
	repo := newMockBookingRepo(
		futureBooking(1, 42, domain.StatusConfirmed),
		futureBooking(2, 42, domain.StatusCancelled),
		futureBooking(3, 99, domain.StatusConfirmed),
	)
	svc := newTestService(repo, &mockNotifyClient{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 42, ActorID: 42, ActorRole: domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	// Фильтр по статусу
	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 42, ActorID: 42, ActorRole: domain.RoleCustomer, Status: ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "cancelled", resp.Bookings[0].Status)

	// Некорректный статус
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 42, ActorID: 42, ActorRole: domain.RoleCustomer, Status: ptr.Ptr("in_progress"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetUserBookings_AccessDenied(t *testing.T) {
	svc := newTestService(newMockBookingRepo(), &mockNotifyClient{})

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 42, ActorID: 99, ActorRole: domain.RoleCustomer,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel_Customer(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	client := &mockNotifyClient{}
	svc := newTestService(repo, client)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID: 42, ActorRole: domain.RoleCustomer, CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	booking := repo.bookings[1]
	assert.Equal(t, domain.StatusCancelled, booking.Status)
	require.NotNil(t, booking.CancellationReason)
	assert.Equal(t, "plans changed", *booking.CancellationReason)

	require.Len(t, client.sent, 1)
	assert.Equal(t, notifyservice.TemplateBookingCancelled, client.sent[0].Template)
	assert.Equal(t, "ivan@example.com", client.sent[0].To)
}

func TestService_Cancel_Guards(t *testing.T) {
	tests := []struct {
		name    string
		booking *domain.Booking
		actorID int64
		role    domain.Role
		wantErr error
	}{
		{
			name:    "foreign booking",
			booking: futureBooking(1, 42, domain.StatusConfirmed),
			actorID: 99, role: domain.RoleCustomer,
			wantErr: ErrAccessDenied,
		},
		{
			name:    "already cancelled",
			booking: futureBooking(1, 42, domain.StatusCancelled),
			actorID: 42, role: domain.RoleCustomer,
			wantErr: ErrAlreadyCancelled,
		},
		{
			name:    "completed booking",
			booking: futureBooking(1, 42, domain.StatusCompleted),
			actorID: 42, role: domain.RoleCustomer,
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "past booking",
			booking: pastBooking(1, 42, domain.StatusConfirmed),
			actorID: 42, role: domain.RoleCustomer,
			wantErr: ErrPastBooking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockBookingRepo(tt.booking)
			client := &mockNotifyClient{}
			svc := newTestService(repo, client)

			err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
				ActorID: tt.actorID, ActorRole: tt.role,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, client.sent)
		})
	}
}

func TestService_Cancel_NotificationFailureIsNotFatal(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	client := &mockNotifyClient{sendErr: notifyservice.ErrSendFailed}
	svc := newTestService(repo, client)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID: 42, ActorRole: domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
}

func TestService_UpdateStatus_ConfirmPending(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusPending))
	client := &mockNotifyClient{}
	svc := newTestService(repo, client)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: 7, ActorRole: domain.RoleAdmin, Status: "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	require.Len(t, client.sent, 1)
	assert.Equal(t, notifyservice.TemplateBookingConfirmed, client.sent[0].Template)
}

func TestService_UpdateStatus_CancelRoutesThroughCancel(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	client := &mockNotifyClient{}
	svc := newTestService(repo, client)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: 7, ActorRole: domain.RoleAdmin, Status: "cancelled", Reason: ptr.Ptr("staff sick"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	booking := repo.bookings[1]
	require.NotNil(t, booking.CancellationReason)
	assert.Equal(t, "staff sick", *booking.CancellationReason)

	require.Len(t, client.sent, 1)
	assert.Equal(t, notifyservice.TemplateBookingCancelled, client.sent[0].Template)
}

func TestService_UpdateStatus_CompleteRequiresElapsedTime(t *testing.T) {
	// Визит еще впереди - завершить нельзя
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	svc := newTestService(repo, &mockNotifyClient{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: 7, ActorRole: domain.RoleAdmin, Status: "completed",
	})
	assert.ErrorIs(t, err, ErrNotElapsed)

	// Визит уже прошел - можно
	repo = newMockBookingRepo(pastBooking(1, 42, domain.StatusConfirmed))
	svc = newTestService(repo, &mockNotifyClient{})

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: 7, ActorRole: domain.RoleAdmin, Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestService_UpdateStatus_NoShowRequiresElapsedTime(t *testing.T) {
	repo := newMockBookingRepo(futureBooking(1, 42, domain.StatusConfirmed))
	svc := newTestService(repo, &mockNotifyClient{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: 7, ActorRole: domain.RoleAdmin, Status: "no_show",
	})
	assert.ErrorIs(t, err, ErrNotElapsed)
}

func TestService_UpdateStatus_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		role    domain.Role
		wantErr error
	}{
		{name: "unknown status", from: domain.StatusPending, to: "in_progress", role: domain.RoleAdmin, wantErr: ErrInvalidStatus},
		{name: "pending to completed", from: domain.StatusPending, to: "completed", role: domain.RoleAdmin, wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "confirmed", role: domain.RoleAdmin, wantErr: ErrInvalidTransition},
		{name: "customer cannot confirm", from: domain.StatusPending, to: "confirmed", role: domain.RoleCustomer, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockBookingRepo(futureBooking(1, 42, tt.from))
			svc := newTestService(repo, &mockNotifyClient{})

			_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				ActorID: 7, ActorRole: tt.role, Status: tt.to,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
