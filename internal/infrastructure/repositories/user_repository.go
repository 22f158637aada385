package repositories

import (
	"context"
	"time"

	"github.com/you/healthrecords/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
// An empty phone number is stored as NULL so the unique index only covers
// users that actually have one.
type DBUser struct {
	ID             uint       `gorm:"primaryKey"`
	FullName       string     `gorm:"size:255;not null"`
	Email          string     `gorm:"uniqueIndex;size:255;not null"`
	Password       string     `gorm:"size:255;not null"`
	Role           string     `gorm:"index;size:16;not null"`
	PhoneNumber    *string    `gorm:"uniqueIndex;size:32"`
	Gender         string     `gorm:"size:32"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	Specialization string     `gorm:"size:255"`
	Address        string     `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return translateError(err)
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Save(dbUser).Error; err != nil {
		return translateError(err)
	}
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByIDs implements domain.UserRepository. Unknown ids are skipped.
func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, "id IN ?", ids)
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.first(ctx, "phone_number = ?", phone)
}

// FindByRole implements domain.UserRepository
func (r *UserRepositoryImpl) FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return r.find(ctx, "role = ?", string(role))
}

// FindAll implements domain.UserRepository
func (r *UserRepositoryImpl) FindAll(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx)
}

// CountByRole implements domain.UserRepository
func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("role = ?", string(role)).Count(&count).Error
	return count, err
}

// Count implements domain.UserRepository
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&count).Error
	return count, err
}

// ExistsByID implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteByID implements domain.UserRepository
func (r *UserRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&DBUser{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var dbUser DBUser
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dbUser).Error; err != nil {
		return nil, translateError(err)
	}
	return r.dbToDomain(&dbUser), nil
}

func (r *UserRepositoryImpl) find(ctx context.Context, conds ...interface{}) ([]*domain.User, error) {
	var rows []DBUser
	if err := r.db.WithContext(ctx).Order("id").Find(&rows, conds...).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, r.dbToDomain(&rows[i]))
	}
	return users, nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Password:       user.Password,
		Role:           string(user.Role),
		Gender:         user.Gender,
		DateOfBirth:    user.DateOfBirth,
		Specialization: user.Specialization,
		Address:        user.Address,
		CreatedAt:      user.CreatedAt,
	}
	if user.PhoneNumber != "" {
		phone := user.PhoneNumber
		dbUser.PhoneNumber = &phone
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:             dbUser.ID,
		FullName:       dbUser.FullName,
		Email:          dbUser.Email,
		Password:       dbUser.Password,
		Role:           domain.Role(dbUser.Role),
		Gender:         dbUser.Gender,
		DateOfBirth:    dbUser.DateOfBirth,
		Specialization: dbUser.Specialization,
		Address:        dbUser.Address,
		CreatedAt:      dbUser.CreatedAt,
		UpdatedAt:      dbUser.UpdatedAt,
	}
	if dbUser.PhoneNumber != nil {
		user.PhoneNumber = *dbUser.PhoneNumber
	}
	return user
}
