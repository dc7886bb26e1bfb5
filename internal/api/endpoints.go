package api

import (
	"fmt"
	"net/url"
	"strings"
)

// Service labels used for metrics and logging.
const (
	ServiceUser       = "user"
	ServiceComplaint  = "complaint"
	ServiceWorker     = "worker"
	ServiceAssignment = "work-assignment"
)

// Endpoints builds request URLs for the three backend services.
//
// Base URLs include the API prefix, e.g. "http://localhost:8081/api/user".
type Endpoints struct {
	User       string
	Complaint  string
	Worker     string
	Assignment string
}

// ServiceOf reports which backend service a URL belongs to, for metric labels.
func (e Endpoints) ServiceOf(rawURL string) string {
	switch {
	case e.Assignment != "" && strings.HasPrefix(rawURL, e.Assignment):
		return ServiceAssignment
	case e.Worker != "" && strings.HasPrefix(rawURL, e.Worker):
		return ServiceWorker
	case e.Complaint != "" && strings.HasPrefix(rawURL, e.Complaint):
		return ServiceComplaint
	case e.User != "" && strings.HasPrefix(rawURL, e.User):
		return ServiceUser
	}
	return "unknown"
}

// Identity service

func (e Endpoints) Login() string    { return e.User + "/login" }
func (e Endpoints) Register() string { return e.User + "/register" }
func (e Endpoints) AllUsers() string { return e.User + "/get-all" }
func (e Endpoints) AllCitizens() string {
	return e.User + "/get-all-citizens"
}
func (e Endpoints) UserByID(id string) string {
	return e.User + "/get/" + url.PathEscape(id)
}
func (e Endpoints) UpdateUser() string { return e.User + "/update" }
func (e Endpoints) DeleteUser(id string) string {
	return e.User + "/delete/" + url.PathEscape(id)
}

// Complaint service

func (e Endpoints) CreateComplaint() string { return e.Complaint + "/create" }
func (e Endpoints) AllComplaints() string   { return e.Complaint + "/get-all" }
func (e Endpoints) ComplaintByID(id string) string {
	return e.Complaint + "/get/" + url.PathEscape(id)
}
func (e Endpoints) UserComplaints(userID string) string {
	return e.Complaint + "/user/" + url.PathEscape(userID)
}
func (e Endpoints) DeleteComplaint(id string) string {
	return e.Complaint + "/delete/" + url.PathEscape(id)
}

// Worker resource group

func (e Endpoints) AllWorkers() string       { return e.Worker + "/get-all" }
func (e Endpoints) AvailableWorkers() string { return e.Worker + "/available" }
func (e Endpoints) WorkerByID(id string) string {
	return e.Worker + "/get/" + url.PathEscape(id)
}

// WorkerComplaints is the worker-scoped complaint listing: the service
// filters by the calling worker's specialization taken from the JWT.
func (e Endpoints) WorkerComplaints() string {
	return e.Worker + "/get-all-complaints"
}

// Work-assignment resource group

func (e Endpoints) AllAssignments() string {
	return e.Assignment + "/get-all-assignments"
}
func (e Endpoints) WorkerAssignments(workerID string) string {
	return e.Assignment + "/worker/" + url.PathEscape(workerID)
}
func (e Endpoints) Assign() string { return e.Assignment + "/assign" }
func (e Endpoints) AssignmentStatus(assignmentID, status string) string {
	return fmt.Sprintf("%s/status/%s?status=%s",
		e.Assignment, url.PathEscape(assignmentID), url.QueryEscape(status))
}
func (e Endpoints) AssignmentPenalty(assignmentID string, penaltyPoints int) string {
	return fmt.Sprintf("%s/penalty/%s?penaltyPoints=%d",
		e.Assignment, url.PathEscape(assignmentID), penaltyPoints)
}
