package store

import (
	"context"

	apperrors "smartcity/internal/errors"
	"smartcity/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// FetchData resolves all role-relevant collections concurrently and
// republishes the cross-joined view models.
//
// Role gating:
//   - citizens and admins read the generic complaint collection; workers
//     read the worker-scoped collection, pre-filtered by specialization
//     server-side
//   - the full assignment collection is always resolved
//   - only admins additionally resolve the user and worker collections;
//     lower-privilege roles are not authorized and must not attempt to
//
// The fan-out waits for every call before publishing anything, so a partial
// or inconsistent joined view is never visible: if any call fails, the
// cached collections keep their previous values and the failure is recorded
// in Err. A session-expired failure is not recorded since Logout has
// already run; callers redirect instead of rendering it.
func (s *Store) FetchData(ctx context.Context, user *User) error {
	if !s.IsSignedIn() || user == nil {
		s.setLoading(false)
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var (
		complaints  []Complaint
		assignments []WorkAssignment
		users       []User
		workers     []Worker
	)

	g, ctx := errgroup.WithContext(ctx)

	complaintURL := s.endpoints.AllComplaints()
	if user.Role == RoleWorker {
		complaintURL = s.endpoints.WorkerComplaints()
	}
	g.Go(func() error {
		return s.getJSON(ctx, complaintURL, &complaints)
	})
	g.Go(func() error {
		return s.getJSON(ctx, s.endpoints.AllAssignments(), &assignments)
	})
	if user.Role == RoleAdmin {
		g.Go(func() error {
			return s.getJSON(ctx, s.endpoints.AllUsers(), &users)
		})
		g.Go(func() error {
			return s.getJSON(ctx, s.endpoints.AllWorkers(), &workers)
		})
	}

	if err := g.Wait(); err != nil {
		metrics.FetchCounter.WithLabelValues("error").Inc()
		if !apperrors.IsSessionExpired(err) {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			s.log.WithError(err).Warn("aggregate fetch failed")
		}
		return err
	}

	enrichedComplaints, enrichedAssignments := join(complaints, assignments, users, workers)

	s.mu.Lock()
	s.complaints = enrichedComplaints
	s.allUsers = users
	s.allAssignments = enrichedAssignments
	s.lastErr = nil
	s.mu.Unlock()

	metrics.FetchCounter.WithLabelValues("success").Inc()
	s.log.WithFields(map[string]any{
		"complaints":  len(enrichedComplaints),
		"assignments": len(enrichedAssignments),
		"users":       len(users),
	}).Debug("aggregate view refreshed")
	return nil
}

// join builds the three lookup structures and produces the enriched views:
// complaint id → assignment, complaint id → title, and user/worker id →
// display name (users and workers concatenated into one namespace).
func join(complaints []Complaint, assignments []WorkAssignment, users []User, workers []Worker) ([]EnrichedComplaint, []EnrichedAssignment) {
	assignmentByComplaint := make(map[string]WorkAssignment, len(assignments))
	for _, a := range assignments {
		assignmentByComplaint[a.ComplaintID] = a
	}

	titleByComplaint := make(map[string]string, len(complaints))
	for _, c := range complaints {
		titleByComplaint[c.ID] = c.Title
	}

	nameByID := make(map[string]string, len(users)+len(workers))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}
	for _, w := range workers {
		nameByID[w.WorkerID] = w.Name
	}

	enrichedComplaints := make([]EnrichedComplaint, 0, len(complaints))
	for _, c := range complaints {
		ec := EnrichedComplaint{Complaint: c, UserName: unknownUser}
		if a, ok := assignmentByComplaint[c.ID]; ok {
			ec.AssignmentID = a.AssignmentID
			ec.WorkerID = a.WorkerID
		}
		if name, ok := nameByID[c.UserID]; ok && name != "" {
			ec.UserName = name
		}
		enrichedComplaints = append(enrichedComplaints, ec)
	}

	enrichedAssignments := make([]EnrichedAssignment, 0, len(assignments))
	for _, a := range assignments {
		ea := EnrichedAssignment{
			WorkAssignment: a,
			ComplaintTitle: unknownComplaint,
			WorkerName:     unknownWorker,
		}
		if title, ok := titleByComplaint[a.ComplaintID]; ok && title != "" {
			ea.ComplaintTitle = title
		}
		if name, ok := nameByID[a.WorkerID]; ok && name != "" {
			ea.WorkerName = name
		}
		enrichedAssignments = append(enrichedAssignments, ea)
	}

	return enrichedComplaints, enrichedAssignments
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Targeted fetch operations: thin authenticated GETs returning the unwrapped
// payload.

// FetchAllUsers returns every identity-service user. Admin only.
func (s *Store) FetchAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.getJSON(ctx, s.endpoints.AllUsers(), &users)
	return users, err
}

// FetchAllCitizens returns every citizen record. Admin only.
func (s *Store) FetchAllCitizens(ctx context.Context) ([]User, error) {
	var citizens []User
	err := s.getJSON(ctx, s.endpoints.AllCitizens(), &citizens)
	return citizens, err
}

// FetchAllWorkers returns every worker record.
func (s *Store) FetchAllWorkers(ctx context.Context) ([]Worker, error) {
	var workers []Worker
	err := s.getJSON(ctx, s.endpoints.AllWorkers(), &workers)
	return workers, err
}

// FindAvailableWorkers returns workers with no active assignment.
func (s *Store) FindAvailableWorkers(ctx context.Context) ([]Worker, error) {
	var workers []Worker
	err := s.getJSON(ctx, s.endpoints.AvailableWorkers(), &workers)
	return workers, err
}

// FetchUserComplaints returns the complaints a user has submitted.
func (s *Store) FetchUserComplaints(ctx context.Context, userID string) ([]Complaint, error) {
	var complaints []Complaint
	err := s.getJSON(ctx, s.endpoints.UserComplaints(userID), &complaints)
	return complaints, err
}

// FetchWorkerComplaints returns the open complaints in the calling worker's
// specialization, filtered server-side.
func (s *Store) FetchWorkerComplaints(ctx context.Context) ([]Complaint, error) {
	var complaints []Complaint
	err := s.getJSON(ctx, s.endpoints.WorkerComplaints(), &complaints)
	return complaints, err
}

// FetchWorkerAssignments returns a worker's assignments.
func (s *Store) FetchWorkerAssignments(ctx context.Context, workerID string) ([]WorkAssignment, error) {
	var assignments []WorkAssignment
	err := s.getJSON(ctx, s.endpoints.WorkerAssignments(workerID), &assignments)
	return assignments, err
}

// FetchWorkerByID returns a single worker record.
func (s *Store) FetchWorkerByID(ctx context.Context, workerID string) (*Worker, error) {
	var worker Worker
	if err := s.getJSON(ctx, s.endpoints.WorkerByID(workerID), &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

// FetchUserByID returns a single user record.
func (s *Store) FetchUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := s.getJSON(ctx, s.endpoints.UserByID(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchComplaintByID returns a single complaint.
func (s *Store) FetchComplaintByID(ctx context.Context, complaintID string) (*Complaint, error) {
	var complaint Complaint
	if err := s.getJSON(ctx, s.endpoints.ComplaintByID(complaintID), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FetchAssignedComplaint returns the id of the current worker's active
// complaint, or empty if none. The worker record carries the active
// assignment list; the first entry is the one in progress.
func (s *Store) FetchAssignedComplaint(ctx context.Context) (string, error) {
	user := s.CurrentUser()
	if user == nil {
		return "", apperrors.NewNotAuthenticatedError()
	}
	worker, err := s.FetchWorkerByID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(worker.AssignedComplaints) == 0 {
		return "", nil
	}
	return worker.AssignedComplaints[0], nil
}
