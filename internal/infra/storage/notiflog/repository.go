package notiflog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// recordUniqueConstraint имя уникального индекса по (booking_id, kind).
// Зеркалит паттерн конфликта слотов: дубликат отправки предотвращается
// на уровне хранилища, даже если диспетчер перезапустился после сбоя.
const recordUniqueConstraint = "uq_notification_log_booking_kind"

// Repository журнал отправленных уведомлений (append-only)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create фиксирует отправку уведомления.
// При повторной фиксации той же пары (booking_id, kind) возвращает
// ErrDuplicateRecord. Записи никогда не изменяются и не удаляются.
func (r *Repository) Create(ctx context.Context, record *domain.NotificationRecord) (*domain.NotificationRecord, error) {
	query, args, err := psqlbuilder.Insert("notification_log").
		Columns(
			"booking_id",
			"kind",
			"recipient",
		).
		Values(
			record.BookingID,
			record.Kind,
			record.Recipient,
		).
		Suffix("RETURNING id, sent_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var sentAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&sentAt,
	)

	if err != nil {
		if isDuplicateRecord(err) {
			return nil, ErrDuplicateRecord
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	record.SentAt = sentAt.Time

	return record, nil
}

// Exists проверяет, было ли уведомление данного вида уже отправлено
// по бронированию
func (r *Repository) Exists(ctx context.Context, bookingID int64, kind string) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("notification_log").
		Where(squirrel.Eq{"booking_id": bookingID, "kind": kind}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// isDuplicateRecord проверяет, что ошибка - нарушение уникального индекса журнала
func isDuplicateRecord(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 23505 = unique_violation
	return pqErr.Code == "23505" && pqErr.Constraint == recordUniqueConstraint
}
