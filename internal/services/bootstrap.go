package services

import (
	"context"
	"fmt"

	"github.com/you/healthrecords/domain"
)

// BootstrapAdmin creates an ADMIN account when none exists yet. It reports
// whether a user was created. An empty email disables it.
func BootstrapAdmin(ctx context.Context, users domain.UserService, repo domain.UserRepository, fullName, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	admins, err := repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}
	if fullName == "" {
		fullName = "Administrator"
	}

	_, err = users.CreateUser(ctx, &domain.UserRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return true, nil
}
