// Package store implements the session and aggregation store: the single
// source of truth for auth state and for role-appropriate, cross-joined
// views of complaints, assignments and users.
package store

import (
	"encoding/json"
	"time"
)

// Role determines which optional user fields are meaningful and which
// collections the aggregate fetch is allowed to request.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleWorker  Role = "WORKER"
	RoleAdmin   Role = "ADMIN"
)

// Complaint status vocabulary as the services emit it.
const (
	StatusNotAssigned = "NOT ASSIGNED"
	StatusAssigned    = "ASSIGNED"
	StatusInProgress  = "IN PROGRESS"
	StatusCompleted   = "COMPLETED"
	StatusPenalized   = "PENALIZED"
)

// Display fallbacks when a join finds no counterpart.
const (
	unknownUser      = "Unknown User"
	unknownWorker    = "Unknown Worker"
	unknownComplaint = "Unknown Complaint"
)

// responseSuccess is the responseStatus value the services send on success.
const responseSuccess = "SUCCESS"

// defaultCreditPoints is the credit value attached when a worker claims a
// complaint.
const defaultCreditPoints = 100

// User is an identity-service record. Citizen fields (address, city, PIN)
// and worker fields (specialization, credits) are populated per role.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	PinCode        string `json:"pinCode,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	TotalCredits   int    `json:"totalCredits,omitempty"`
}

// Worker is a worker-service record. Its id field is named workerId on the
// wire, which is why the join keys users and workers separately.
type Worker struct {
	WorkerID           string   `json:"workerId"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	PhoneNumber        string   `json:"phoneNumber"`
	Specialization     string   `json:"specialization"`
	Available          bool     `json:"available"`
	TotalCredits       int      `json:"totalCredits"`
	AssignedComplaints []string `json:"assignedComplaints"`
}

// Complaint is a complaint-service record.
type Complaint struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageBase64 string     `json:"imageBase64"`
	Status      string     `json:"status"`
	CreatedOn   *time.Time `json:"createdOn,omitempty"`
}

// EnrichedComplaint is a complaint annotated with its assignment and the
// submitter's display name. The annotations are view-only and never sent
// back upstream.
type EnrichedComplaint struct {
	Complaint
	AssignmentID string `json:"assignmentId,omitempty"`
	WorkerID     string `json:"workerId,omitempty"`
	UserName     string `json:"userName"`
}

// WorkAssignment binds one worker to one complaint, with its own status and
// credit bookkeeping.
type WorkAssignment struct {
	AssignmentID string     `json:"assignmentId"`
	ComplaintID  string     `json:"complaintId"`
	WorkerID     string     `json:"workerId"`
	Status       string     `json:"status"`
	CreditPoints int        `json:"creditPoints"`
	AssignedOn   *time.Time `json:"assignedOn,omitempty"`
	CompletedOn  *time.Time `json:"completedOn,omitempty"`
}

// EnrichedAssignment is an assignment annotated with the complaint title and
// worker display name.
type EnrichedAssignment struct {
	WorkAssignment
	ComplaintTitle string `json:"complaintTitle"`
	WorkerName     string `json:"workerName"`
}

// Envelope is the common response wrapper all three services use. Data is
// unwrapped per call into the expected payload type.
type Envelope struct {
	ResponseStatus string          `json:"responseStatus"`
	Message        string          `json:"message"`
	Data           json.RawMessage `json:"data"`
	StatusCode     int             `json:"statusCode"`
}

// OK reports whether the envelope carries a success status.
func (e *Envelope) OK() bool {
	return e != nil && e.ResponseStatus == responseSuccess
}

// authPayload is the data field of a successful login or register response.
type authPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegistrationForm is the generic registration form. Register discards the
// fields irrelevant to the chosen role before sending.
type RegistrationForm struct {
	Name           string `validate:"required"`
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=8"`
	Role           Role   `validate:"required,oneof=CITIZEN WORKER ADMIN"`
	PhoneNumber    string `validate:"omitempty,phone10"`
	Address        string
	City           string
	PinCode        string `validate:"omitempty,pin6"`
	Specialization string
}

// ComplaintForm is the complaint-creation form. The image travels as
// multipart form data, not JSON.
type ComplaintForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	ImageName   string
	Image       []byte
}

// ProfileUpdate is a partial update of the current user's own profile.
// Empty fields are omitted from the request and retained server-side.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=1"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,phone10"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PinCode     string `json:"pinCode,omitempty" validate:"omitempty,pin6"`
}
