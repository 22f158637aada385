package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/mocks"
)

func newUserServiceForTest(t *testing.T) (domain.UserService, *mocks.MockUserRepository, *mocks.MockVisitRepository, *mocks.MockAuditLogger) {
	t.Helper()
	userRepo := mocks.NewMockUserRepository()
	visitRepo := mocks.NewMockVisitRepository()
	audit := mocks.NewMockAuditLogger()
	return NewUserService(userRepo, visitRepo, audit), userRepo, visitRepo, audit
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		req           *domain.UserRequest
		setupMocks    func(*mocks.MockUserRepository)
		expectedError error
		expectedMsg   string
	}{
		{
			name: "successful creation with lower-case role",
			req:  &domain.UserRequest{FullName: "Dr. A", Email: "a@x.com", Password: "p1", Role: "doctor", PhoneNumber: "+100"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					user.ID = 1
					return nil
				}
			},
		},
		{
			name:          "unknown role",
			req:           &domain.UserRequest{FullName: "N", Email: "n@x.com", Password: "p", Role: "nurse"},
			setupMocks:    func(*mocks.MockUserRepository) {},
			expectedError: domain.ErrInvalidArgument,
			expectedMsg:   "Invalid role: nurse. Allowed values are ADMIN, DOCTOR, PATIENT",
		},
		{
			name:          "missing password",
			req:           &domain.UserRequest{FullName: "N", Email: "n@x.com", Role: "PATIENT"},
			setupMocks:    func(*mocks.MockUserRepository) {},
			expectedError: domain.ErrInvalidArgument,
			expectedMsg:   "Password is required",
		},
		{
			name: "email taken",
			req:  &domain.UserRequest{FullName: "X", Email: "a@x.com", Password: "p", Role: "PATIENT"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: 1, Email: email}, nil
				}
			},
			expectedError: domain.ErrDuplicateResource,
			expectedMsg:   "Email already registered. Please use a different email.",
		},
		{
			name: "taken email reported before a bad role",
			req:  &domain.UserRequest{FullName: "X", Email: "a@x.com", Password: "p", Role: "nurse"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: 1, Email: email}, nil
				}
			},
			expectedError: domain.ErrDuplicateResource,
			expectedMsg:   "Email already registered. Please use a different email.",
		},
		{
			name: "phone taken",
			req:  &domain.UserRequest{FullName: "X", Email: "x@x.com", Password: "p", Role: "PATIENT", PhoneNumber: "+100"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
					return &domain.User{ID: 1, PhoneNumber: phone}, nil
				}
			},
			expectedError: domain.ErrDuplicateResource,
			expectedMsg:   "Phone number already registered. Please use a different phone number.",
		},
		{
			name: "empty phone skips phone check",
			req:  &domain.UserRequest{FullName: "X", Email: "x@x.com", Password: "p", Role: "PATIENT"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
					t.Error("FindByPhone should not be called for an empty phone")
					return nil, domain.ErrNotFound
				}
			},
		},
		{
			name: "unique index race surfaces as duplicate",
			req:  &domain.UserRequest{FullName: "X", Email: "x@x.com", Password: "p", Role: "PATIENT"},
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					return domain.ErrDuplicateResource
				}
			},
			expectedError: domain.ErrDuplicateResource,
			expectedMsg:   "Email or phone number already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _, audit := newUserServiceForTest(t)
			tt.setupMocks(userRepo)

			resp, err := svc.CreateUser(createTestContext(t), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, tt.expectedMsg, domain.Message(err))
				assert.Nil(t, resp)
				assert.Empty(t, audit.Events())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Email, resp.Email)
			assert.True(t, resp.Role.Valid())
			assert.Equal(t, []domain.AuditEventType{domain.UserRegistrationEvent}, audit.Types())
		})
	}
}

func TestUserServiceImpl_CreateUser_StoresPasswordVerbatim(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceForTest(t)
	var saved *domain.User
	userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		saved = user
		return nil
	}

	_, err := svc.CreateUser(createTestContext(t), &domain.UserRequest{FullName: "P", Email: "p@x.com", Password: "Secret 1", Role: "patient"})
	require.NoError(t, err)
	assert.Equal(t, "Secret 1", saved.Password)
	assert.Equal(t, domain.RolePatient, saved.Role)
}

func TestUserServiceImpl_GetUsersByRole(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceForTest(t)
	userRepo.FindByRoleFunc = func(ctx context.Context, role domain.Role) ([]*domain.User, error) {
		assert.Equal(t, domain.RolePatient, role)
		return []*domain.User{createPatient(t)}, nil
	}

	users, err := svc.GetUsersByRole(createTestContext(t), "Patient")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "P", users[0].FullName)

	_, err = svc.GetUsersByRole(createTestContext(t), "nurse")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestUserServiceImpl_GetUserByID(t *testing.T) {
	svc, userRepo, _, _ := newUserServiceForTest(t)
	userRepo.FindByIDFunc, _ = usersByID(createDoctor(t))

	user, err := svc.GetUserByID(createTestContext(t), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dr. A", user.FullName)

	_, err = svc.GetUserByID(createTestContext(t), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "User not found with id: 42", domain.Message(err))
}

func TestCheckOwner(t *testing.T) {
	tests := []struct {
		name          string
		owner         *domain.User
		err           error
		self          uint
		expectedError error
	}{
		{name: "nobody owns it", err: domain.ErrNotFound},
		{name: "owned by self", owner: &domain.User{ID: 2}, self: 2},
		{name: "owned by another user", owner: &domain.User{ID: 5}, self: 2, expectedError: domain.ErrDuplicateResource},
		{name: "owned by anyone on create", owner: &domain.User{ID: 5}, expectedError: domain.ErrDuplicateResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOwner(tt.owner, tt.err, tt.self, "taken")
			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Equal(t, "taken", domain.Message(err))
		})
	}

	err := checkOwner(nil, errors.New("db down"), 2, "taken")
	assert.EqualError(t, err, "failed to check uniqueness: db down")
}

func TestUserServiceImpl_UpdateUser(t *testing.T) {
	other := &domain.User{ID: 5, Email: "b@x.com", PhoneNumber: "+500"}

	tests := []struct {
		name          string
		id            uint
		req           *domain.UserRequest
		expectedError error
		validate      func(t *testing.T, saved *domain.User)
	}{
		{
			name: "empty password keeps the old one",
			id:   2,
			req:  &domain.UserRequest{FullName: "P2", Email: "p@x.com", Role: "PATIENT"},
			validate: func(t *testing.T, saved *domain.User) {
				assert.Equal(t, "p2", saved.Password)
				assert.Equal(t, "P2", saved.FullName)
				assert.Empty(t, saved.PhoneNumber, "fields are applied unconditionally")
			},
		},
		{
			name: "non-empty password replaces it",
			id:   2,
			req:  &domain.UserRequest{FullName: "P", Email: "p@x.com", Password: "new", Role: "PATIENT", PhoneNumber: "+15550002"},
			validate: func(t *testing.T, saved *domain.User) {
				assert.Equal(t, "new", saved.Password)
			},
		},
		{
			name: "new unused email",
			id:   2,
			req:  &domain.UserRequest{FullName: "P", Email: "new@x.com", Role: "PATIENT"},
			validate: func(t *testing.T, saved *domain.User) {
				assert.Equal(t, "new@x.com", saved.Email)
			},
		},
		{
			name:          "email owned by another user",
			id:            2,
			req:           &domain.UserRequest{FullName: "P", Email: "b@x.com", Role: "PATIENT"},
			expectedError: domain.ErrDuplicateResource,
		},
		{
			name:          "phone owned by another user",
			id:            2,
			req:           &domain.UserRequest{FullName: "P", Email: "p@x.com", Role: "PATIENT", PhoneNumber: "+500"},
			expectedError: domain.ErrDuplicateResource,
		},
		{
			name:          "unknown user",
			id:            9,
			req:           &domain.UserRequest{FullName: "P", Email: "p@x.com", Role: "PATIENT"},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "bad role",
			id:            2,
			req:           &domain.UserRequest{FullName: "P", Email: "p@x.com", Role: "guest"},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "taken email reported before a bad role",
			id:            2,
			req:           &domain.UserRequest{FullName: "P", Email: "b@x.com", Role: "guest"},
			expectedError: domain.ErrDuplicateResource,
		},
		{
			name: "email lookup resolving to the same user",
			id:   2,
			req:  &domain.UserRequest{FullName: "P", Email: "P@X.com", Role: "PATIENT", PhoneNumber: "+1 555 0002"},
			validate: func(t *testing.T, saved *domain.User) {
				assert.Equal(t, "P@X.com", saved.Email)
				assert.Equal(t, "+1 555 0002", saved.PhoneNumber)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _, _ := newUserServiceForTest(t)
			userRepo.FindByIDFunc, _ = usersByID(createPatient(t), other)
			// stores with case-insensitive collation or normalized phones
			// can resolve a changed value back to its current owner
			userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
				switch email {
				case other.Email:
					return other, nil
				case "P@X.com":
					return createPatient(t), nil
				}
				return nil, domain.ErrNotFound
			}
			userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
				switch phone {
				case other.PhoneNumber:
					return other, nil
				case "+1 555 0002":
					return createPatient(t), nil
				}
				return nil, domain.ErrNotFound
			}
			var saved *domain.User
			userRepo.UpdateFunc = func(ctx context.Context, user *domain.User) error {
				saved = user
				return nil
			}

			resp, err := svc.UpdateUser(createTestContext(t), tt.id, tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, saved)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, tt.id, saved.ID)
			assert.Equal(t, saved.Email, resp.Email)
			tt.validate(t, saved)
		})
	}
}

func TestUserServiceImpl_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		exists        bool
		visits        int64
		deleteErr     error
		expectedError error
	}{
		{name: "successful delete", exists: true},
		{name: "unknown user", exists: false, expectedError: domain.ErrNotFound},
		{name: "referenced by visits", exists: true, visits: 2, expectedError: domain.ErrUserInUse},
		{name: "foreign key rejects delete", exists: true, deleteErr: domain.ErrUserInUse, expectedError: domain.ErrUserInUse},
		{name: "store failure", exists: true, deleteErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, visitRepo, audit := newUserServiceForTest(t)
			userRepo.ExistsByIDFunc = func(ctx context.Context, id uint) (bool, error) { return tt.exists, nil }
			visitRepo.CountByUserFunc = func(ctx context.Context, id uint) (int64, error) { return tt.visits, nil }
			deleted := false
			userRepo.DeleteByIDFunc = func(ctx context.Context, id uint) error {
				deleted = true
				return tt.deleteErr
			}

			err := svc.DeleteUser(createTestContext(t), 3)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, audit.Events())
			case tt.deleteErr != nil:
				assert.ErrorIs(t, err, tt.deleteErr)
			default:
				require.NoError(t, err)
				assert.True(t, deleted)
				assert.Equal(t, []domain.AuditEventType{domain.UserDeletionEvent}, audit.Types())
			}
			if tt.visits > 0 {
				assert.False(t, deleted, "users with visits must not reach the store delete")
				assert.Equal(t, "User 3 is referenced by 2 visit(s) and cannot be deleted", domain.Message(err))
			}
		})
	}
}

func TestBootstrapAdmin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		admins   int64
		expected bool
	}{
		{name: "creates first admin", email: "root@x.com", expected: true},
		{name: "admin already present", email: "root@x.com", admins: 1},
		{name: "disabled without email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _, _ := newUserServiceForTest(t)
			userRepo.CountByRoleFunc = func(ctx context.Context, role domain.Role) (int64, error) {
				assert.Equal(t, domain.RoleAdmin, role)
				return tt.admins, nil
			}
			var created *domain.User
			userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
				created = user
				return nil
			}

			ok, err := BootstrapAdmin(createTestContext(t), svc, userRepo, "", tt.email, "changeme")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				require.NotNil(t, created)
				assert.Equal(t, domain.RoleAdmin, created.Role)
				assert.Equal(t, "Administrator", created.FullName)
			} else {
				assert.Nil(t, created)
			}
		})
	}
}
