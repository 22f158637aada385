package services

import (
	"context"
	"testing"
	"time"

	"github.com/you/healthrecords/domain"
)

func createTestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func createDoctor(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:             1,
		FullName:       "Dr. A",
		Email:          "a@x.com",
		Password:       "p1",
		Role:           domain.RoleDoctor,
		Specialization: "Cardiology",
	}
}

func createPatient(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:          2,
		FullName:    "P",
		Email:       "p@x.com",
		Password:    "p2",
		Role:        domain.RolePatient,
		PhoneNumber: "+15550002",
	}
}

func visitRequest(t *testing.T, patientID, doctorID uint, at string) *domain.VisitRequest {
	t.Helper()
	dt, err := domain.ParseDateTime(at)
	if err != nil {
		t.Fatalf("bad visit date %q: %v", at, err)
	}
	return &domain.VisitRequest{PatientID: patientID, DoctorID: doctorID, VisitDate: &dt}
}

// usersByID serves FindByID/FindByIDs lookups from a fixed set
func usersByID(users ...*domain.User) (func(context.Context, uint) (*domain.User, error), func(context.Context, []uint) ([]*domain.User, error)) {
	index := make(map[uint]*domain.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	one := func(_ context.Context, id uint) (*domain.User, error) {
		if u, ok := index[id]; ok {
			copied := *u
			return &copied, nil
		}
		return nil, domain.ErrNotFound
	}
	many := func(_ context.Context, ids []uint) ([]*domain.User, error) {
		out := []*domain.User{}
		for _, id := range ids {
			if u, ok := index[id]; ok {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return one, many
}
