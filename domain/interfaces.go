package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
// Lookups of absent records return ErrNotFound; unique-constraint violations
// return ErrDuplicateResource.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
}

// VisitRepository defines visit data access operations
type VisitRepository interface {
	Create(ctx context.Context, visit *Visit) error
	FindByID(ctx context.Context, id uint) (*Visit, error)
	FindByPatientID(ctx context.Context, patientID uint) ([]*Visit, error)
	FindByDoctorID(ctx context.Context, doctorID uint) ([]*Visit, error)
	FindByPatientIDAndDoctorIDAndVisitDate(ctx context.Context, patientID, doctorID uint, visitDate time.Time) (*Visit, error)
	FindAll(ctx context.Context) ([]*Visit, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// CountByUser counts visits where the user is either patient or doctor
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, userID uint) (*UserResponse, error)
}

// UserService defines user management business logic
type UserService interface {
	CreateUser(ctx context.Context, req *UserRequest) (*UserResponse, error)
	GetAllUsers(ctx context.Context) ([]*UserResponse, error)
	GetUsersByRole(ctx context.Context, role string) ([]*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req *UserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
}

// VisitService defines visit management business logic
type VisitService interface {
	CreateVisit(ctx context.Context, req *VisitRequest) (*VisitResponse, error)
	GetVisitByID(ctx context.Context, id uint) (*VisitResponse, error)
	GetVisitsByPatientID(ctx context.Context, patientID uint) ([]*VisitResponse, error)
	GetVisitsByDoctorID(ctx context.Context, doctorID uint) ([]*VisitResponse, error)
	GetAllVisits(ctx context.Context) ([]*VisitResponse, error)
	DeleteVisit(ctx context.Context, id uint) error
}

// AdminService defines reporting operations
type AdminService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role Role, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(policy Policy) error
	RemovePolicy(policy Policy) error
	// Authorize reports whether role may call method on path and, when it may,
	// the field rules of all matching policies ("*" for a row without one).
	// The request passes when any one of the rules holds.
	Authorize(role Role, path, method string) (bool, []string, error)
	GetPolicies() ([]Policy, error)
	// SeedDefaults installs policies only when none are stored yet
	SeedDefaults(policies []Policy) error
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	HasPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error)
}
