package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

const serviceColumns = `id, name, description, image, created_at`

// ServiceRepository persists the services catalog.
type ServiceRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var s domain.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Image, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	s, err := scanService(GetDBTX(ctx, r.pool).QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepository) Upsert(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	s, err := scanService(GetDBTX(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO services (name, description, image)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description,
		    image = EXCLUDED.image
		RETURNING `+serviceColumns,
		service.Name, service.Description, service.Image,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert service %q: %w", service.Name, err)
	}
	return s, nil
}

const workColumns = `id, title, images, square, quantity, time, success_work, created_at`

// WorkRepository persists the portfolio.
type WorkRepository struct {
	pool *pgxpool.Pool
}

var _ ports.WorkRepository = (*WorkRepository)(nil)

func NewWorkRepository(pool *pgxpool.Pool) *WorkRepository {
	return &WorkRepository{pool: pool}
}

func scanWork(row pgx.Row) (*domain.Work, error) {
	var w domain.Work
	if err := row.Scan(&w.ID, &w.Title, &w.Images, &w.Square, &w.Quantity, &w.Time, &w.SuccessWork, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns the newest works first.
func (r *WorkRepository) List(ctx context.Context) ([]*domain.Work, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx,
		`SELECT `+workColumns+` FROM works ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	defer rows.Close()

	works := []*domain.Work{}
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	return works, nil
}

func (r *WorkRepository) GetByID(ctx context.Context, id int64) (*domain.Work, error) {
	w, err := scanWork(GetDBTX(ctx, r.pool).QueryRow(ctx,
		`SELECT `+workColumns+` FROM works WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkNotFound
		}
		return nil, fmt.Errorf("get work: %w", err)
	}
	return w, nil
}

func (r *WorkRepository) Upsert(ctx context.Context, work *domain.Work) (*domain.Work, error) {
	w, err := scanWork(GetDBTX(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO works (title, images, square, quantity, time, success_work)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (title) DO UPDATE
		SET images = EXCLUDED.images,
		    square = EXCLUDED.square,
		    quantity = EXCLUDED.quantity,
		    time = EXCLUDED.time,
		    success_work = EXCLUDED.success_work
		RETURNING `+workColumns,
		work.Title, textArray(work.Images), work.Square, work.Quantity, work.Time, textArray(work.SuccessWork),
	))
	if err != nil {
		return nil, fmt.Errorf("upsert work %q: %w", work.Title, err)
	}
	return w, nil
}

// textArray keeps nil slices from being written as NULL.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
