package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visitResponse struct {
	ID          uint   `json:"id"`
	PatientID   uint   `json:"patientId"`
	PatientName string `json:"patientName"`
	DoctorID    uint   `json:"doctorId"`
	DoctorName  string `json:"doctorName"`
	VisitDate   string `json:"visitDate"`
	Diagnosis   string `json:"diagnosis"`
}

func TestRecordsFlow_Open(t *testing.T) {
	s := newTestServer(t, false)

	doctor := s.register("Dr. A", "a@x.com", "DOCTOR", "+1001")
	patient := s.register("P", "p@x.com", "patient", "+1002")
	assert.Equal(t, "PATIENT", patient.Role)

	var errResp errorResponse
	status := s.do(http.MethodPost, "/api/users", "", map[string]string{
		"fullName": "Other", "email": "a@x.com", "password": "x", "role": "PATIENT",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered. Please use a different email.", errResp.Message)

	visit := map[string]interface{}{
		"patientId": patient.ID,
		"doctorId":  doctor.ID,
		"visitDate": "2024-01-01T10:00:00",
		"diagnosis": "flu",
	}

	var created visitResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/visits", "", visit, &created))
	assert.Equal(t, "P", created.PatientName)
	assert.Equal(t, "Dr. A", created.DoctorName)
	assert.Equal(t, "2024-01-01T10:00:00", created.VisitDate)

	visit["visitDate"] = "2024-01-01T12:00:00+02:00"
	errResp = errorResponse{}
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/visits", "", visit, &errResp))
	assert.Equal(t, 409, errResp.Status)

	errResp = errorResponse{}
	noPatient := map[string]interface{}{"doctorId": doctor.ID, "visitDate": "2024-01-02T10:00:00"}
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/visits", "", noPatient, &errResp))
	assert.Equal(t, "Patient not found with id: 0", errResp.Message)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/users/0", "", nil, nil))

	var byPatient []visitResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path("/api/visits/patient/%d", patient.ID), "", nil, &byPatient))
	require.Len(t, byPatient, 1)
	assert.Equal(t, "flu", byPatient[0].Diagnosis)

	var stats map[string]int64
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/stats", "", nil, &stats))
	assert.Equal(t, map[string]int64{"totalUsers": 3, "totalDoctors": 1, "totalPatients": 1, "totalVisits": 1}, stats)

	errResp = errorResponse{}
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, path("/api/users/%d", doctor.ID), "", nil, &errResp))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path("/api/visits/%d", created.ID), "", nil, nil))
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path("/api/users/%d", doctor.ID), "", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path("/api/users/%d", doctor.ID), "", nil, nil))
}

func TestLogin_OpenModeIssuesNoToken(t *testing.T) {
	s := newTestServer(t, false)
	s.register("P", "p@x.com", "PATIENT", "")

	out := s.login("p@x.com", "pw-PATIENT")
	assert.Equal(t, "PATIENT", out.Role)
	assert.Empty(t, out.AccessToken)

	var errResp errorResponse
	status := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "p@x.com", "password": "wrong"}, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Invalid email or password", errResp.Message)
}

func TestRecordsFlow_Enforced(t *testing.T) {
	s := newTestServer(t, true)

	admin := s.login("admin@hospital.test", "admin-pass")
	require.NotEmpty(t, admin.AccessToken)
	assert.Equal(t, "ADMIN", admin.Role)

	doctor := s.registerWith(admin.AccessToken, "Dr. A", "a@x.com", "DOCTOR", "")
	patient := s.register("P", "p@x.com", "PATIENT", "")
	other := s.register("Q", "q@x.com", "PATIENT", "")

	doc := s.login("a@x.com", "pw-DOCTOR")
	pat := s.login("p@x.com", "pw-PATIENT")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/auth/me", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/auth/me", token: "garbage", want: http.StatusUnauthorized},
		{name: "patient me", method: http.MethodGet, path: "/api/auth/me", token: pat.AccessToken, want: http.StatusOK},
		{name: "patient own profile", method: http.MethodGet, path: path("/api/users/%d", patient.ID), token: pat.AccessToken, want: http.StatusOK},
		{name: "patient other profile", method: http.MethodGet, path: path("/api/users/%d", other.ID), token: pat.AccessToken, want: http.StatusForbidden},
		{name: "patient lists users", method: http.MethodGet, path: "/api/users", token: pat.AccessToken, want: http.StatusForbidden},
		{name: "patient stats", method: http.MethodGet, path: "/api/admin/stats", token: pat.AccessToken, want: http.StatusForbidden},
		{name: "doctor lists users", method: http.MethodGet, path: "/api/users", token: doc.AccessToken, want: http.StatusOK},
		{name: "doctor deletes user", method: http.MethodDelete, path: path("/api/users/%d", other.ID), token: doc.AccessToken, want: http.StatusForbidden},
		{name: "admin stats", method: http.MethodGet, path: "/api/admin/stats", token: admin.AccessToken, want: http.StatusOK},
		{name: "admin policies", method: http.MethodGet, path: "/api/admin/policies", token: admin.AccessToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.do(tt.method, tt.path, tt.token, nil, nil))
		})
	}

	visit := map[string]interface{}{"patientId": patient.ID, "doctorId": doctor.ID, "visitDate": "2024-03-05T09:30:00"}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/visits", pat.AccessToken, visit, nil))
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/visits", doc.AccessToken, visit, nil))

	var own []visitResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path("/api/visits/patient/%d", patient.ID), pat.AccessToken, nil, &own))
	assert.Len(t, own, 1)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, path("/api/visits/patient/%d", other.ID), pat.AccessToken, nil, nil))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", pat.AccessToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", pat.AccessToken, nil, nil))
}

func TestPolicyManagement_Enforced(t *testing.T) {
	s := newTestServer(t, true)
	patient := s.register("P", "p@x.com", "PATIENT", "")
	admin := s.login("admin@hospital.test", "admin-pass")
	pat := s.login("p@x.com", "pw-PATIENT")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/visits", pat.AccessToken, nil, nil))

	grant := map[string]string{"role": "PATIENT", "path": "/api/visits", "method": "GET", "rule": "*"}
	require.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/admin/policies", admin.AccessToken, grant, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/admin/policies", admin.AccessToken, grant, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/visits", pat.AccessToken, nil, nil))

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/admin/policies", admin.AccessToken, grant, nil))
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/visits", pat.AccessToken, nil, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path("/api/users/%d", patient.ID), pat.AccessToken, nil, nil))
}

func TestRegistration_Enforced(t *testing.T) {
	s := newTestServer(t, true)
	s.register("P", "p@x.com", "PATIENT", "")
	pat := s.login("p@x.com", "pw-PATIENT")

	user := func(email, role string) map[string]string {
		return map[string]string{"fullName": "X", "email": email, "password": "x", "role": role}
	}

	var errResp errorResponse
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/users", "", user("evil@x.com", "ADMIN"), &errResp))
	assert.Equal(t, "Only an administrator can create ADMIN users", errResp.Message)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/users", "", user("doc@x.com", "doctor"), nil))
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/users", pat.AccessToken, user("evil@x.com", "ADMIN"), nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/users", "forged", user("evil@x.com", "ADMIN"), nil))

	// the refused account does not exist, so it cannot log in
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "evil@x.com", "password": "x"}, nil))

	admin := s.login("admin@hospital.test", "admin-pass")
	second := s.registerWith(admin.AccessToken, "Second Admin", "admin2@x.com", "ADMIN", "")
	assert.Equal(t, "ADMIN", second.Role)

	var stats map[string]int64
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/stats", admin.AccessToken, nil, &stats))
	assert.Equal(t, int64(3), stats["totalUsers"])
}
