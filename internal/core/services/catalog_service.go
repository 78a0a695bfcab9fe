package services

import (
	"context"
	"fmt"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// CatalogService serves the public services catalog and portfolio.
type CatalogService struct {
	serviceRepo ports.ServiceRepository
	workRepo    ports.WorkRepository
	txManager   ports.TransactionManager
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(
	serviceRepo ports.ServiceRepository,
	workRepo ports.WorkRepository,
	txManager ports.TransactionManager,
) ports.CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		workRepo:    workRepo,
		txManager:   txManager,
	}
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.serviceRepo.List(ctx)
}

func (s *CatalogService) ListWorks(ctx context.Context) ([]*domain.Work, error) {
	return s.workRepo.List(ctx)
}

func (s *CatalogService) GetWork(ctx context.Context, id int64) (*domain.Work, error) {
	if id <= 0 {
		return nil, apperrors.ErrWorkNotFound
	}
	return s.workRepo.GetByID(ctx, id)
}

// GetWorkBySlug resolves a public slug such as "montazh-ventilyatsii-42".
// Only the trailing id is authoritative; the title part may be stale.
func (s *CatalogService) GetWorkBySlug(ctx context.Context, slug string) (*domain.Work, error) {
	id, err := domain.WorkIDFromSlug(slug)
	if err != nil {
		return nil, err
	}
	return s.GetWork(ctx, id)
}

// ImportContent upserts every service and work in one transaction.
func (s *CatalogService) ImportContent(ctx context.Context, principal domain.Principal, bundle ports.ContentBundle) (ports.ImportResult, error) {
	if !principal.IsAdmin() {
		return ports.ImportResult{}, apperrors.ErrForbidden
	}

	for i, svc := range bundle.Services {
		if err := svc.Validate(); err != nil {
			return ports.ImportResult{}, fmt.Errorf("service %d: %w", i, err)
		}
	}
	for i, work := range bundle.Works {
		if err := work.Validate(); err != nil {
			return ports.ImportResult{}, fmt.Errorf("work %d: %w", i, err)
		}
	}

	var result ports.ImportResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for _, svc := range bundle.Services {
			if _, err := s.serviceRepo.Upsert(ctx, svc); err != nil {
				return fmt.Errorf("upsert service %q: %w", svc.Name, err)
			}
			result.Services++
		}
		for _, work := range bundle.Works {
			if _, err := s.workRepo.Upsert(ctx, work); err != nil {
				return fmt.Errorf("upsert work %q: %w", work.Title, err)
			}
			result.Works++
		}
		return nil
	})
	if err != nil {
		return ports.ImportResult{}, err
	}

	return result, nil
}
