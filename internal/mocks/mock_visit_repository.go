package mocks

import (
	"context"
	"time"

	"github.com/you/healthrecords/domain"
)

// MockVisitRepository implements domain.VisitRepository interface for testing
type MockVisitRepository struct {
	CreateFunc          func(ctx context.Context, visit *domain.Visit) error
	FindByIDFunc        func(ctx context.Context, id uint) (*domain.Visit, error)
	FindByPatientIDFunc func(ctx context.Context, patientID uint) ([]*domain.Visit, error)
	FindByDoctorIDFunc  func(ctx context.Context, doctorID uint) ([]*domain.Visit, error)
	FindByKeyFunc       func(ctx context.Context, patientID, doctorID uint, visitDate time.Time) (*domain.Visit, error)
	FindAllFunc         func(ctx context.Context) ([]*domain.Visit, error)
	ExistsByIDFunc      func(ctx context.Context, id uint) (bool, error)
	DeleteByIDFunc      func(ctx context.Context, id uint) error
	CountFunc           func(ctx context.Context) (int64, error)
	CountByUserFunc     func(ctx context.Context, userID uint) (int64, error)
}

// NewMockVisitRepository creates a new MockVisitRepository with default behaviors
func NewMockVisitRepository() *MockVisitRepository {
	return &MockVisitRepository{}
}

// Create stores a visit
func (m *MockVisitRepository) Create(ctx context.Context, visit *domain.Visit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, visit)
	}
	return nil
}

// FindByID finds a visit by ID
func (m *MockVisitRepository) FindByID(ctx context.Context, id uint) (*domain.Visit, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// FindByPatientID lists a patient's visits
func (m *MockVisitRepository) FindByPatientID(ctx context.Context, patientID uint) ([]*domain.Visit, error) {
	if m.FindByPatientIDFunc != nil {
		return m.FindByPatientIDFunc(ctx, patientID)
	}
	return []*domain.Visit{}, nil
}

// FindByDoctorID lists a doctor's visits
func (m *MockVisitRepository) FindByDoctorID(ctx context.Context, doctorID uint) ([]*domain.Visit, error) {
	if m.FindByDoctorIDFunc != nil {
		return m.FindByDoctorIDFunc(ctx, doctorID)
	}
	return []*domain.Visit{}, nil
}

// FindByPatientIDAndDoctorIDAndVisitDate finds a visit by its composite key
func (m *MockVisitRepository) FindByPatientIDAndDoctorIDAndVisitDate(ctx context.Context, patientID, doctorID uint, visitDate time.Time) (*domain.Visit, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, patientID, doctorID, visitDate)
	}
	return nil, domain.ErrNotFound
}

// FindAll lists every visit
func (m *MockVisitRepository) FindAll(ctx context.Context) ([]*domain.Visit, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []*domain.Visit{}, nil
}

// ExistsByID reports whether a visit exists
func (m *MockVisitRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return false, nil
}

// DeleteByID deletes a visit
func (m *MockVisitRepository) DeleteByID(ctx context.Context, id uint) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}

// Count counts every visit
func (m *MockVisitRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// CountByUser counts visits referencing a user
func (m *MockVisitRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, userID)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.VisitRepository = (*MockVisitRepository)(nil)
