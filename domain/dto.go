package domain

// UserRequest is the create/update payload for a user
type UserRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password"`
	Role           string `json:"role" binding:"required"`
	PhoneNumber    string `json:"phoneNumber"`
	Gender         string `json:"gender"`
	DateOfBirth    *Date  `json:"dateOfBirth"`
	Specialization string `json:"specialization"`
	Address        string `json:"address"`
}

// UserResponse is the public shape of a user
type UserResponse struct {
	ID             uint   `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	PhoneNumber    string `json:"phoneNumber"`
	Gender         string `json:"gender"`
	DateOfBirth    *Date  `json:"dateOfBirth"`
	Specialization string `json:"specialization"`
	Address        string `json:"address"`
}

// VisitRequest is the create payload for a visit
type VisitRequest struct {
	PatientID           uint      `json:"patientId"`
	DoctorID            uint      `json:"doctorId"`
	VisitDate           *DateTime `json:"visitDate" binding:"required"`
	ReasonForVisit      string    `json:"reasonForVisit"`
	Symptoms            string    `json:"symptoms"`
	Diagnosis           string    `json:"diagnosis"`
	PrescribedMedicines string    `json:"prescribedMedicines"`
	HeightCm            *float64  `json:"heightCm"`
	WeightKg            *float64  `json:"weightKg"`
	BloodPressure       string    `json:"bloodPressure"`
	Pulse               *int      `json:"pulse"`
	Temperature         *float64  `json:"temperature"`
	Notes               string    `json:"notes" binding:"max=2000"`
}

// VisitResponse is the public shape of a visit with patient and doctor
// names resolved at read time
type VisitResponse struct {
	ID                  uint     `json:"id"`
	PatientID           uint     `json:"patientId"`
	PatientName         string   `json:"patientName"`
	DoctorID            uint     `json:"doctorId"`
	DoctorName          string   `json:"doctorName"`
	VisitDate           DateTime `json:"visitDate"`
	ReasonForVisit      string   `json:"reasonForVisit"`
	Symptoms            string   `json:"symptoms"`
	Diagnosis           string   `json:"diagnosis"`
	PrescribedMedicines string   `json:"prescribedMedicines"`
	HeightCm            *float64 `json:"heightCm"`
	WeightKg            *float64 `json:"weightKg"`
	BloodPressure       string   `json:"bloodPressure"`
	Pulse               *int     `json:"pulse"`
	Temperature         *float64 `json:"temperature"`
	Notes               string   `json:"notes"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
