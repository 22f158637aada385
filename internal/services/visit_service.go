package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/you/healthrecords/domain"
)

const visitTaken = "A visit already exists for this patient with this doctor at the same date and time."

// VisitServiceImpl implements domain.VisitService
type VisitServiceImpl struct {
	visitRepo domain.VisitRepository
	userRepo  domain.UserRepository
	notifier  domain.NotificationService
	audit     domain.AuditLogger
	log       zerolog.Logger
}

// NewVisitService creates a new visit service. notifier may be nil to
// disable visit SMS.
func NewVisitService(
	visitRepo domain.VisitRepository,
	userRepo domain.UserRepository,
	notifier domain.NotificationService,
	audit domain.AuditLogger,
	log zerolog.Logger,
) domain.VisitService {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &VisitServiceImpl{
		visitRepo: visitRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		audit:     audit,
		log:       log.With().Str("service", "visit").Logger(),
	}
}

// CreateVisit implements domain.VisitService
func (s *VisitServiceImpl) CreateVisit(ctx context.Context, req *domain.VisitRequest) (*domain.VisitResponse, error) {
	if req.VisitDate == nil || req.VisitDate.IsZero() {
		return nil, domain.InvalidArgumentf("Visit date is required")
	}

	patient, err := s.findParticipant(ctx, req.PatientID, "Patient")
	if err != nil {
		return nil, err
	}
	doctor, err := s.findParticipant(ctx, req.DoctorID, "Doctor")
	if err != nil {
		return nil, err
	}

	visit := domain.NewVisitFromRequest(req)
	_, err = s.visitRepo.FindByPatientIDAndDoctorIDAndVisitDate(ctx, visit.PatientID, visit.DoctorID, visit.VisitDate)
	switch {
	case err == nil:
		return nil, domain.DuplicateResourcef(visitTaken)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to check visit key: %w", err)
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return nil, domain.DuplicateResourcef(visitTaken)
		}
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.VisitRecordedEvent, doctor.ID).
		WithMetadata("visit_id", visit.ID).
		WithMetadata("patient_id", patient.ID))

	s.notifyPatient(patient, doctor, visit)

	return domain.ToVisitResponse(visit, patient, doctor), nil
}

// GetVisitByID implements domain.VisitService
func (s *VisitServiceImpl) GetVisitByID(ctx context.Context, id uint) (*domain.VisitResponse, error) {
	visit, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Visit not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to load visit: %w", err)
	}

	responses, err := s.withNames(ctx, []*domain.Visit{visit})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// GetVisitsByPatientID implements domain.VisitService
func (s *VisitServiceImpl) GetVisitsByPatientID(ctx context.Context, patientID uint) ([]*domain.VisitResponse, error) {
	visits, err := s.visitRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits for patient %d: %w", patientID, err)
	}
	return s.withNames(ctx, visits)
}

// GetVisitsByDoctorID implements domain.VisitService
func (s *VisitServiceImpl) GetVisitsByDoctorID(ctx context.Context, doctorID uint) ([]*domain.VisitResponse, error) {
	visits, err := s.visitRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits for doctor %d: %w", doctorID, err)
	}
	return s.withNames(ctx, visits)
}

// GetAllVisits implements domain.VisitService
func (s *VisitServiceImpl) GetAllVisits(ctx context.Context) ([]*domain.VisitResponse, error) {
	visits, err := s.visitRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return s.withNames(ctx, visits)
}

// DeleteVisit implements domain.VisitService
func (s *VisitServiceImpl) DeleteVisit(ctx context.Context, id uint) error {
	exists, err := s.visitRepo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check visit: %w", err)
	}
	if !exists {
		return domain.NotFoundf("Visit not found with id: %d", id)
	}
	if err := s.visitRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFoundf("Visit not found with id: %d", id)
		}
		return fmt.Errorf("failed to delete visit: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.VisitDeletedEvent, 0).WithMetadata("visit_id", id))
	return nil
}

func (s *VisitServiceImpl) findParticipant(ctx context.Context, id uint, label string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("%s not found with id: %d", label, id)
		}
		return nil, fmt.Errorf("failed to load %s: %w", label, err)
	}
	return user, nil
}

// withNames maps visits to responses, resolving patient and doctor names in
// one batch lookup. Users that no longer exist leave the name empty.
func (s *VisitServiceImpl) withNames(ctx context.Context, visits []*domain.Visit) ([]*domain.VisitResponse, error) {
	responses := make([]*domain.VisitResponse, 0, len(visits))
	if len(visits) == 0 {
		return responses, nil
	}

	seen := make(map[uint]struct{}, 2*len(visits))
	ids := make([]uint, 0, 2*len(visits))
	for _, v := range visits {
		for _, id := range []uint{v.PatientID, v.DoctorID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visit participants: %w", err)
	}
	byID := make(map[uint]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, v := range visits {
		responses = append(responses, domain.ToVisitResponse(v, byID[v.PatientID], byID[v.DoctorID]))
	}
	return responses, nil
}

func (s *VisitServiceImpl) notifyPatient(patient, doctor *domain.User, visit *domain.Visit) {
	if s.notifier == nil || patient.PhoneNumber == "" {
		return
	}
	msg := fmt.Sprintf("Hello %s, your visit with %s on %s UTC has been recorded.",
		patient.FullName, doctor.FullName, visit.VisitDate.UTC().Format("2006-01-02 15:04"))
	if err := s.notifier.SendSMS(patient.PhoneNumber, msg); err != nil {
		s.log.Warn().Err(err).Uint("visit_id", visit.ID).Uint("patient_id", patient.ID).Msg("visit notification failed")
	}
}
