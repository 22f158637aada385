package domain

import "time"

// ToUserResponse maps a user onto its public shape, dropping the password
func ToUserResponse(u *User) *UserResponse {
	resp := &UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		PhoneNumber:    u.PhoneNumber,
		Gender:         u.Gender,
		Specialization: u.Specialization,
		Address:        u.Address,
	}
	if u.DateOfBirth != nil {
		d := NewDate(*u.DateOfBirth)
		resp.DateOfBirth = &d
	}
	return resp
}

// ToUserResponses maps a slice of users
func ToUserResponses(users []*User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ToVisitResponse maps a visit onto its public shape. patient and doctor may
// be nil when the referenced user no longer exists; names are then empty.
func ToVisitResponse(v *Visit, patient, doctor *User) *VisitResponse {
	resp := &VisitResponse{
		ID:                  v.ID,
		PatientID:           v.PatientID,
		DoctorID:            v.DoctorID,
		VisitDate:           NewDateTime(v.VisitDate),
		ReasonForVisit:      v.ReasonForVisit,
		Symptoms:            v.Symptoms,
		Diagnosis:           v.Diagnosis,
		PrescribedMedicines: v.PrescribedMedicines,
		HeightCm:            v.HeightCm,
		WeightKg:            v.WeightKg,
		BloodPressure:       v.BloodPressure,
		Pulse:               v.Pulse,
		Temperature:         v.Temperature,
		Notes:               v.Notes,
	}
	if patient != nil {
		resp.PatientName = patient.FullName
	}
	if doctor != nil {
		resp.DoctorName = doctor.FullName
	}
	return resp
}

// NewUserFromRequest builds an unsaved user. The role must already be parsed.
func NewUserFromRequest(req *UserRequest, role Role) *User {
	u := &User{Password: req.Password}
	ApplyUserRequest(u, req, role)
	return u
}

// ApplyUserRequest copies every updatable field except the password from req
// onto u.
func ApplyUserRequest(u *User, req *UserRequest, role Role) {
	u.FullName = req.FullName
	u.Email = req.Email
	u.Role = role
	u.PhoneNumber = req.PhoneNumber
	u.Gender = req.Gender
	u.Specialization = req.Specialization
	u.Address = req.Address
	u.DateOfBirth = nil
	if req.DateOfBirth != nil && !req.DateOfBirth.IsZero() {
		t := req.DateOfBirth.Time
		u.DateOfBirth = &t
	}
}

// NewVisitFromRequest builds an unsaved visit copying every clinical field verbatim
func NewVisitFromRequest(req *VisitRequest) *Visit {
	var visitDate time.Time
	if req.VisitDate != nil {
		visitDate = req.VisitDate.Time
	}
	return &Visit{
		PatientID:           req.PatientID,
		DoctorID:            req.DoctorID,
		VisitDate:           visitDate,
		ReasonForVisit:      req.ReasonForVisit,
		Symptoms:            req.Symptoms,
		Diagnosis:           req.Diagnosis,
		PrescribedMedicines: req.PrescribedMedicines,
		HeightCm:            req.HeightCm,
		WeightKg:            req.WeightKg,
		BloodPressure:       req.BloodPressure,
		Pulse:               req.Pulse,
		Temperature:         req.Temperature,
		Notes:               req.Notes,
	}
}
