package types

// CenterRequest is the body of addVaccinationCenter and updateVaccinationCenter.
type CenterRequest struct {
	// example: City Hall Clinic
	Name string `json:"name" example:"City Hall Clinic"`
	// example: 12 Main Street
	Location string `json:"location" example:"12 Main Street"`
	// example: Covaxin, 2 doses
	DosageDetails string `json:"dosageDetails" example:"Covaxin, 2 doses"`
	// example: 09:00-17:00
	Timings string `json:"timings" example:"09:00-17:00"`
}

// CenterRef is the body of removeVaccinationCenter and bookVaccinationCenter.
type CenterRef struct {
	// example: 3
	ID CenterID `json:"id" swaggertype:"integer" example:"3"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name" example:"Asha"`
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// InsertResult echoes the outcome of a signup insert.
type InsertResult struct {
	// example: 1
	AffectedRows int64 `json:"affectedRows" example:"1"`
	// example: 7
	InsertID int64 `json:"insertId" example:"7"`
}

// ActionResponse is returned by successful update, remove and book calls.
type ActionResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// example: Booking successful
	Message string `json:"message" example:"Booking successful"`
}

// ErrorResponse is a consistent JSON error payload. Code is omitted on the
// legacy center endpoints, which answer 200 with only an error message.
type ErrorResponse struct {
	// Error message.
	// example: No available slots for booking
	Error string `json:"error" example:"No available slots for booking"`
	// HTTP status code.
	// example: 400
	Code int `json:"code,omitempty" example:"400"`
}
