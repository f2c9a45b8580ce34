package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий справочных данных: услуги, сотрудники и их
// компетенции. Данные принадлежат административному CRUD вне движка
// расписания; здесь только чтение.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price",
		"category",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.Category,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetStaffByID получает сотрудника по ID
func (r *Repository) GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - build select query: %v", ErrBuildQuery, err)
	}

	staff, err := r.scanStaffRow(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - scan staff: %v", ErrScanRow, err)
	}

	return staff, nil
}

// ListActiveStaffForService получает активных сотрудников, способных
// выполнять услугу (по таблице компетенций staff_services).
// Порядок детерминированный - по ID.
func (r *Repository) ListActiveStaffForService(ctx context.Context, serviceID int64) ([]*domain.Staff, error) {
	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.name",
		"s.is_active",
		"s.created_at",
		"s.updated_at",
	).
		From("staff s").
		Join("staff_services ss ON ss.staff_id = s.id").
		Where(squirrel.Eq{"ss.service_id": serviceID, "s.is_active": true}).
		OrderBy("s.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaffForService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaffForService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanStaffList(rows)
}

// ListActiveStaff получает всех активных сотрудников.
// Используется генератором слотов при запросе без фильтра по услуге.
func (r *Repository) ListActiveStaff(ctx context.Context) ([]*domain.Staff, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanStaffList(rows)
}

// IsStaffCapable проверяет, что сотрудник умеет выполнять услугу
func (r *Repository) IsStaffCapable(ctx context.Context, staffID, serviceID int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": staffID, "service_id": serviceID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsStaffCapable - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsStaffCapable - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanStaffRow(row rowScanner) (*domain.Staff, error) {
	var staff domain.Staff
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	return &staff, nil
}

func (r *Repository) scanStaffList(rows *sql.Rows) ([]*domain.Staff, error) {
	staffList := make([]*domain.Staff, 0)

	for rows.Next() {
		staff, err := r.scanStaffRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanStaffList - scan row: %v", ErrScanRow, err)
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanStaffList - rows error: %v", ErrScanRow, err)
	}

	return staffList, nil
}
