package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/authservice"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// mockUseCase мок use case создания бронирования
type mockUseCase struct {
	gotReq *createBooking.Request
	resp   *createBooking.Response
	err    error
}

func (m *mockUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testIdentity = &authservice.Identity{ID: 42, Email: "ivan@example.com", Role: "customer"}

func newRequest(t *testing.T, body interface{}, identity *authservice.Identity) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", &buf)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

func validBody() *CreateBookingRequest {
	return &CreateBookingRequest{
		ServiceID:    3,
		Date:         "2026-09-02",
		StartTime:    "10:00",
		CustomerName: "Ivan",
	}
}

func TestHandler_Handle_Created(t *testing.T) {
	useCase := &mockUseCase{
		resp: &createBooking.Response{
			ID:              15,
			CustomerID:      42,
			ServiceID:       3,
			StaffID:         7,
			BookingDate:     time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          "pending",
			ServiceName:     "Massage",
			ServicePrice:    50,
			CustomerName:    "Ivan",
			CustomerEmail:   "ivan@example.com",
		},
	}
	handler := NewHandler(useCase, nopLogger{})

	rec := httptest.NewRecorder()
	handler.Handle(rec, newRequest(t, validBody(), testIdentity))

	require.Equal(t, http.StatusCreated, rec.Code)

	// Личность берется из токена, не из тела
	require.NotNil(t, useCase.gotReq)
	assert.Equal(t, int64(42), useCase.gotReq.CustomerID)
	assert.Equal(t, "ivan@example.com", useCase.gotReq.CustomerEmail)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(15), resp.ID)
	assert.Equal(t, "2026-09-02", resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandler_Handle_MissingIdentity(t *testing.T) {
	handler := NewHandler(&mockUseCase{}, nopLogger{})

	rec := httptest.NewRecorder()
	handler.Handle(rec, newRequest(t, validBody(), nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Handle_InvalidBody(t *testing.T) {
	handler := NewHandler(&mockUseCase{}, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{not json"))
	req = req.WithContext(middleware.WithIdentity(req.Context(), testIdentity))

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, handlers.CodeInvalidInput, errResp.Code)
}

func TestHandler_Handle_BadDateFormat(t *testing.T) {
	handler := NewHandler(&mockUseCase{}, nopLogger{})

	body := validBody()
	body.Date = "02.09.2026"

	rec := httptest.NewRecorder()
	handler.Handle(rec, newRequest(t, body, testIdentity))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Handle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		useCaseErr error
		wantStatus int
		wantCode   string
	}{
		{name: "slot taken", useCaseErr: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict, wantCode: handlers.CodeSlotUnavailable},
		{name: "service not found", useCaseErr: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound, wantCode: handlers.CodeNotFound},
		{name: "service inactive", useCaseErr: createBooking.ErrServiceInactive, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeInvalidInput},
		{name: "staff not found", useCaseErr: createBooking.ErrStaffNotFound, wantStatus: http.StatusNotFound, wantCode: handlers.CodeNotFound},
		{name: "staff not capable", useCaseErr: createBooking.ErrStaffNotCapable, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeInvalidInput},
		{name: "date in past", useCaseErr: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeInvalidDate},
		{name: "invalid time slot", useCaseErr: createBooking.ErrInvalidTimeSlot, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeInvalidInput},
		{name: "internal error", useCaseErr: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError, wantCode: handlers.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockUseCase{err: tt.useCaseErr}, nopLogger{})

			rec := httptest.NewRecorder()
			handler.Handle(rec, newRequest(t, validBody(), testIdentity))

			require.Equal(t, tt.wantStatus, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}
