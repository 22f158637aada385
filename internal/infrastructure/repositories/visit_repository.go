package repositories

import (
	"context"
	"time"

	"github.com/you/healthrecords/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VisitRepositoryImpl implements domain.VisitRepository using GORM
type VisitRepositoryImpl struct {
	db *gorm.DB
}

// DBVisit represents the database model for Visit.
// idx_visits_composite is the authoritative guard for the
// (patient, doctor, visit date) uniqueness rule.
type DBVisit struct {
	ID                  uint      `gorm:"primaryKey"`
	PatientID           uint      `gorm:"not null;uniqueIndex:idx_visits_composite,priority:1"`
	Patient             DBUser    `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	DoctorID            uint      `gorm:"not null;index;uniqueIndex:idx_visits_composite,priority:2"`
	Doctor              DBUser    `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	VisitDate           time.Time `gorm:"not null;uniqueIndex:idx_visits_composite,priority:3"`
	ReasonForVisit      string    `gorm:"size:512"`
	Symptoms            string    `gorm:"size:1024"`
	Diagnosis           string    `gorm:"size:1024"`
	PrescribedMedicines string    `gorm:"size:1024"`
	HeightCm            *float64
	WeightKg            *float64
	BloodPressure       string `gorm:"size:32"`
	Pulse               *int
	Temperature         *float64
	Notes               string `gorm:"size:2000"`
	CreatedAt           time.Time
}

// TableName returns the table name for GORM
func (DBVisit) TableName() string {
	return "visits"
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *gorm.DB) domain.VisitRepository {
	return &VisitRepositoryImpl{db: db}
}

// Create implements domain.VisitRepository
func (r *VisitRepositoryImpl) Create(ctx context.Context, visit *domain.Visit) error {
	dbVisit := r.domainToDB(visit)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(dbVisit).Error; err != nil {
		return translateError(err)
	}
	visit.ID = dbVisit.ID
	visit.CreatedAt = dbVisit.CreatedAt
	return nil
}

// FindByID implements domain.VisitRepository
func (r *VisitRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Visit, error) {
	var dbVisit DBVisit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbVisit).Error; err != nil {
		return nil, translateError(err)
	}
	return r.dbToDomain(&dbVisit), nil
}

// FindByPatientID implements domain.VisitRepository
func (r *VisitRepositoryImpl) FindByPatientID(ctx context.Context, patientID uint) ([]*domain.Visit, error) {
	return r.find(ctx, "patient_id = ?", patientID)
}

// FindByDoctorID implements domain.VisitRepository
func (r *VisitRepositoryImpl) FindByDoctorID(ctx context.Context, doctorID uint) ([]*domain.Visit, error) {
	return r.find(ctx, "doctor_id = ?", doctorID)
}

// FindByPatientIDAndDoctorIDAndVisitDate implements domain.VisitRepository
func (r *VisitRepositoryImpl) FindByPatientIDAndDoctorIDAndVisitDate(ctx context.Context, patientID, doctorID uint, visitDate time.Time) (*domain.Visit, error) {
	var dbVisit DBVisit
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ? AND visit_date = ?", patientID, doctorID, normalizeVisitDate(visitDate)).
		First(&dbVisit).Error
	if err != nil {
		return nil, translateError(err)
	}
	return r.dbToDomain(&dbVisit), nil
}

// FindAll implements domain.VisitRepository
func (r *VisitRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Visit, error) {
	return r.find(ctx)
}

// ExistsByID implements domain.VisitRepository
func (r *VisitRepositoryImpl) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBVisit{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteByID implements domain.VisitRepository
func (r *VisitRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&DBVisit{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count implements domain.VisitRepository
func (r *VisitRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBVisit{}).Count(&count).Error
	return count, err
}

// CountByUser implements domain.VisitRepository
func (r *VisitRepositoryImpl) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBVisit{}).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

func (r *VisitRepositoryImpl) find(ctx context.Context, conds ...interface{}) ([]*domain.Visit, error) {
	var rows []DBVisit
	if err := r.db.WithContext(ctx).Order("visit_date, id").Find(&rows, conds...).Error; err != nil {
		return nil, err
	}
	visits := make([]*domain.Visit, 0, len(rows))
	for i := range rows {
		visits = append(visits, r.dbToDomain(&rows[i]))
	}
	return visits, nil
}

// normalizeVisitDate matches the precision and zone visit dates are written with
func normalizeVisitDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (r *VisitRepositoryImpl) domainToDB(visit *domain.Visit) *DBVisit {
	return &DBVisit{
		ID:                  visit.ID,
		PatientID:           visit.PatientID,
		DoctorID:            visit.DoctorID,
		VisitDate:           normalizeVisitDate(visit.VisitDate),
		ReasonForVisit:      visit.ReasonForVisit,
		Symptoms:            visit.Symptoms,
		Diagnosis:           visit.Diagnosis,
		PrescribedMedicines: visit.PrescribedMedicines,
		HeightCm:            visit.HeightCm,
		WeightKg:            visit.WeightKg,
		BloodPressure:       visit.BloodPressure,
		Pulse:               visit.Pulse,
		Temperature:         visit.Temperature,
		Notes:               visit.Notes,
		CreatedAt:           visit.CreatedAt,
	}
}

func (r *VisitRepositoryImpl) dbToDomain(dbVisit *DBVisit) *domain.Visit {
	return &domain.Visit{
		ID:                  dbVisit.ID,
		PatientID:           dbVisit.PatientID,
		DoctorID:            dbVisit.DoctorID,
		VisitDate:           dbVisit.VisitDate.UTC(),
		ReasonForVisit:      dbVisit.ReasonForVisit,
		Symptoms:            dbVisit.Symptoms,
		Diagnosis:           dbVisit.Diagnosis,
		PrescribedMedicines: dbVisit.PrescribedMedicines,
		HeightCm:            dbVisit.HeightCm,
		WeightKg:            dbVisit.WeightKg,
		BloodPressure:       dbVisit.BloodPressure,
		Pulse:               dbVisit.Pulse,
		Temperature:         dbVisit.Temperature,
		Notes:               dbVisit.Notes,
		CreatedAt:           dbVisit.CreatedAt,
	}
}
