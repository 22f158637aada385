package mocks

import (
	"context"

	"github.com/you/healthrecords/domain"
)

// MockVisitService implements domain.VisitService interface for testing
type MockVisitService struct {
	CreateVisitFunc          func(ctx context.Context, req *domain.VisitRequest) (*domain.VisitResponse, error)
	GetVisitByIDFunc         func(ctx context.Context, id uint) (*domain.VisitResponse, error)
	GetVisitsByPatientIDFunc func(ctx context.Context, patientID uint) ([]*domain.VisitResponse, error)
	GetVisitsByDoctorIDFunc  func(ctx context.Context, doctorID uint) ([]*domain.VisitResponse, error)
	GetAllVisitsFunc         func(ctx context.Context) ([]*domain.VisitResponse, error)
	DeleteVisitFunc          func(ctx context.Context, id uint) error
}

// NewMockVisitService creates a new MockVisitService with default behaviors
func NewMockVisitService() *MockVisitService {
	return &MockVisitService{}
}

// CreateVisit records a visit
func (m *MockVisitService) CreateVisit(ctx context.Context, req *domain.VisitRequest) (*domain.VisitResponse, error) {
	if m.CreateVisitFunc != nil {
		return m.CreateVisitFunc(ctx, req)
	}
	return domain.ToVisitResponse(domain.NewVisitFromRequest(req), nil, nil), nil
}

// GetVisitByID fetches one visit
func (m *MockVisitService) GetVisitByID(ctx context.Context, id uint) (*domain.VisitResponse, error) {
	if m.GetVisitByIDFunc != nil {
		return m.GetVisitByIDFunc(ctx, id)
	}
	return nil, domain.NotFoundf("Visit not found with id: %d", id)
}

// GetVisitsByPatientID lists a patient's visits
func (m *MockVisitService) GetVisitsByPatientID(ctx context.Context, patientID uint) ([]*domain.VisitResponse, error) {
	if m.GetVisitsByPatientIDFunc != nil {
		return m.GetVisitsByPatientIDFunc(ctx, patientID)
	}
	return []*domain.VisitResponse{}, nil
}

// GetVisitsByDoctorID lists a doctor's visits
func (m *MockVisitService) GetVisitsByDoctorID(ctx context.Context, doctorID uint) ([]*domain.VisitResponse, error) {
	if m.GetVisitsByDoctorIDFunc != nil {
		return m.GetVisitsByDoctorIDFunc(ctx, doctorID)
	}
	return []*domain.VisitResponse{}, nil
}

// GetAllVisits lists every visit
func (m *MockVisitService) GetAllVisits(ctx context.Context) ([]*domain.VisitResponse, error) {
	if m.GetAllVisitsFunc != nil {
		return m.GetAllVisitsFunc(ctx)
	}
	return []*domain.VisitResponse{}, nil
}

// DeleteVisit removes a visit
func (m *MockVisitService) DeleteVisit(ctx context.Context, id uint) error {
	if m.DeleteVisitFunc != nil {
		return m.DeleteVisitFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.VisitService = (*MockVisitService)(nil)
