package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/you/healthrecords/domain"
)

const (
	emailTaken = "Email already registered. Please use a different email."
	phoneTaken = "Phone number already registered. Please use a different phone number."
)

// UserServiceImpl implements domain.UserService
type UserServiceImpl struct {
	userRepo  domain.UserRepository
	visitRepo domain.VisitRepository
	audit     domain.AuditLogger
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, visitRepo domain.VisitRepository, audit domain.AuditLogger) domain.UserService {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &UserServiceImpl{userRepo: userRepo, visitRepo: visitRepo, audit: audit}
}

// CreateUser implements domain.UserService
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *domain.UserRequest) (*domain.UserResponse, error) {
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.InvalidArgumentf("Password is required")
	}

	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}
	if req.PhoneNumber != "" {
		if err := s.ensurePhoneFree(ctx, req.PhoneNumber, 0); err != nil {
			return nil, err
		}
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user := domain.NewUserFromRequest(req, role)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError("failed to create user", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("role", string(role)))

	return domain.ToUserResponse(user), nil
}

// GetAllUsers implements domain.UserService
func (s *UserServiceImpl) GetAllUsers(ctx context.Context) ([]*domain.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return domain.ToUserResponses(users), nil
}

// GetUsersByRole implements domain.UserService
func (s *UserServiceImpl) GetUsersByRole(ctx context.Context, role string) ([]*domain.UserResponse, error) {
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByRole(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return domain.ToUserResponses(users), nil
}

// GetUserByID implements domain.UserService
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id uint) (*domain.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.ToUserResponse(user), nil
}

// UpdateUser implements domain.UserService. Every field is replaced from req
// except the password, which only changes when req carries a non-empty one.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uint, req *domain.UserRequest) (*domain.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
			return nil, err
		}
	}
	if req.PhoneNumber != "" && req.PhoneNumber != user.PhoneNumber {
		if err := s.ensurePhoneFree(ctx, req.PhoneNumber, id); err != nil {
			return nil, err
		}
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	domain.ApplyUserRequest(user, req, role)
	if req.Password != "" {
		user.Password = req.Password
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeError("failed to update user", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserUpdateEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("password_changed", req.Password != ""))

	return domain.ToUserResponse(user), nil
}

// DeleteUser implements domain.UserService. Users still referenced by visits
// are kept.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uint) error {
	exists, err := s.userRepo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.NotFoundf("User not found with id: %d", id)
	}

	visits, err := s.visitRepo.CountByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count visits: %w", err)
	}
	if visits > 0 {
		return domain.UserInUsef("User %d is referenced by %d visit(s) and cannot be deleted", id, visits)
	}

	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.NotFoundf("User not found with id: %d", id)
		case errors.Is(err, domain.ErrUserInUse):
			return domain.UserInUsef("User %d is referenced by visits and cannot be deleted", id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserDeletionEvent, id))
	return nil
}

func (s *UserServiceImpl) findUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("User not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ensureEmailFree fails when email belongs to a user other than self (0 = nobody)
func (s *UserServiceImpl) ensureEmailFree(ctx context.Context, email string, self uint) error {
	owner, err := s.userRepo.FindByEmail(ctx, email)
	return checkOwner(owner, err, self, emailTaken)
}

func (s *UserServiceImpl) ensurePhoneFree(ctx context.Context, phone string, self uint) error {
	owner, err := s.userRepo.FindByPhone(ctx, phone)
	return checkOwner(owner, err, self, phoneTaken)
}

func checkOwner(owner *domain.User, err error, self uint, msg string) error {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if owner != nil && owner.ID != self {
		return domain.DuplicateResourcef("%s", msg)
	}
	return nil
}

// storeError turns a unique-index violation that slipped past the service
// checks into a client-facing duplicate error.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicateResource) {
		return domain.DuplicateResourcef("Email or phone number already registered")
	}
	return fmt.Errorf("%s: %w", op, err)
}
