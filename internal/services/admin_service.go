package services

import (
	"context"
	"fmt"

	"github.com/you/healthrecords/domain"
)

// AdminServiceImpl implements domain.AdminService
type AdminServiceImpl struct {
	userRepo  domain.UserRepository
	visitRepo domain.VisitRepository
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo domain.UserRepository, visitRepo domain.VisitRepository) domain.AdminService {
	return &AdminServiceImpl{userRepo: userRepo, visitRepo: visitRepo}
}

// GetStats implements domain.AdminService. The four counts are read
// independently and are not a consistent snapshot.
func (s *AdminServiceImpl) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalDoctors, err = s.userRepo.CountByRole(ctx, domain.RoleDoctor); err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}
	if stats.TotalPatients, err = s.userRepo.CountByRole(ctx, domain.RolePatient); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if stats.TotalVisits, err = s.visitRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}
	return &stats, nil
}
