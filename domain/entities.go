package domain

import "time"

// User represents a registered admin, doctor or patient
type User struct {
	ID             uint
	FullName       string
	Email          string
	Password       string
	Role           Role
	PhoneNumber    string
	Gender         string
	DateOfBirth    *time.Time
	Specialization string // doctors only, not enforced
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Visit represents one clinical encounter between a patient and a doctor.
// PatientID and DoctorID are non-owning references into the user set.
type Visit struct {
	ID                  uint
	PatientID           uint
	DoctorID            uint
	VisitDate           time.Time
	ReasonForVisit      string
	Symptoms            string
	Diagnosis           string
	PrescribedMedicines string
	HeightCm            *float64
	WeightKg            *float64
	BloodPressure       string
	Pulse               *int
	Temperature         *float64
	Notes               string
	CreatedAt           time.Time
}

// Session represents a logged-in user session
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// LoginResult is returned by a successful login. The password is never part of it.
type LoginResult struct {
	ID          uint   `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	AccessToken string `json:"accessToken,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	ExpiresIn   int64  `json:"expiresIn,omitempty"`
}

// Stats holds the admin dashboard counters
type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalDoctors  int64 `json:"totalDoctors"`
	TotalPatients int64 `json:"totalPatients"`
	TotalVisits   int64 `json:"totalVisits"`
}

// Policy is one role authorization rule. Path is a keyMatch2 pattern, Method
// a regular expression and Rule either "*" or field conditions such as
// "path.id==token.user_id".
type Policy struct {
	Role   Role   `json:"role" binding:"required"`
	Path   string `json:"path" binding:"required"`
	Method string `json:"method" binding:"required"`
	Rule   string `json:"rule"`
}
