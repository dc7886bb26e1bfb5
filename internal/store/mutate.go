package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

// Mutating operations. Each performs the remote call, surfaces the outcome
// through the notifier, and on success triggers a full aggregate re-fetch so
// the published view reflects authoritative state. No optimistic local
// mutation is applied anywhere.

// refetch re-runs the aggregate fetch after a successful mutation. The
// re-fetch's own failure is recorded in Err but does not fail the mutation:
// the remote change already happened.
func (s *Store) refetch(ctx context.Context) {
	if err := s.FetchData(ctx, s.CurrentUser()); err != nil {
		s.log.WithError(err).Warn("re-fetch after mutation failed")
	}
}

// DeleteUser removes a user account. Admin only.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.request(ctx, http.MethodDelete, s.endpoints.DeleteUser(userID), nil, "")
	if err != nil {
		s.notify(ctx, "User deletion failed", err.Error())
		return err
	}
	s.notify(ctx, "User deleted", fmt.Sprintf("User %s was deleted.", userID))
	s.refetch(ctx)
	return nil
}

// DeleteComplaint removes a complaint.
func (s *Store) DeleteComplaint(ctx context.Context, complaintID string) error {
	_, err := s.request(ctx, http.MethodDelete, s.endpoints.DeleteComplaint(complaintID), nil, "")
	if err != nil {
		s.notify(ctx, "Complaint deletion failed", err.Error())
		return err
	}
	s.notify(ctx, "Complaint deleted", fmt.Sprintf("Complaint %s was deleted.", complaintID))
	s.refetch(ctx)
	return nil
}

// AssignComplaint creates a work assignment binding the current user (who
// must be a worker) to the complaint with the default credit value.
func (s *Store) AssignComplaint(ctx context.Context, complaintID string) error {
	user := s.CurrentUser()
	if user == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"workerId":     user.ID,
		"complaintId":  complaintID,
		"creditPoints": defaultCreditPoints,
	})
	if err != nil {
		return err
	}

	_, err = s.request(ctx, http.MethodPost, s.endpoints.Assign(), bytes.NewReader(payload), "application/json")
	if err != nil {
		s.notify(ctx, "Assignment failed", err.Error())
		return err
	}
	s.notify(ctx, "Complaint assigned", fmt.Sprintf("Complaint %s assigned to %s.", complaintID, user.Name))
	s.refetch(ctx)
	return nil
}

// UpdateComplaintStatus transitions an assignment's status. Workers drive
// this through the IN PROGRESS and COMPLETED transitions.
func (s *Store) UpdateComplaintStatus(ctx context.Context, assignmentID, newStatus string) error {
	_, err := s.request(ctx, http.MethodPut, s.endpoints.AssignmentStatus(assignmentID, newStatus), nil, "")
	if err != nil {
		s.notify(ctx, "Status update failed", err.Error())
		return err
	}
	s.notify(ctx, "Status updated", fmt.Sprintf("Assignment %s is now %s.", assignmentID, newStatus))
	s.refetch(ctx)
	return nil
}

// ApplyPenalty records a penalty against a completed assignment. Admin only.
func (s *Store) ApplyPenalty(ctx context.Context, assignmentID string, penaltyPoints int) error {
	_, err := s.request(ctx, http.MethodPut, s.endpoints.AssignmentPenalty(assignmentID, penaltyPoints), nil, "")
	if err != nil {
		s.notify(ctx, "Penalty failed", err.Error())
		return err
	}
	s.notify(ctx, "Penalty applied", fmt.Sprintf("Assignment %s penalized %d points.", assignmentID, penaltyPoints))
	s.refetch(ctx)
	return nil
}

// CreateComplaint submits a new complaint as multipart form data (the image
// travels as a file part, everything else as fields).
func (s *Store) CreateComplaint(ctx context.Context, form ComplaintForm) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", form.Title); err != nil {
		return err
	}
	if err := w.WriteField("description", form.Description); err != nil {
		return err
	}
	if err := w.WriteField("worker-category", form.Category); err != nil {
		return err
	}
	if len(form.Image) > 0 {
		name := form.ImageName
		if name == "" {
			name = "complaint.jpg"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return err
		}
		if _, err := part.Write(form.Image); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	_, err := s.request(ctx, http.MethodPost, s.endpoints.CreateComplaint(), &buf, w.FormDataContentType())
	if err != nil {
		s.notify(ctx, "Complaint submission failed", err.Error())
		return err
	}
	s.notify(ctx, "Complaint submitted", form.Title)
	s.refetch(ctx)
	return nil
}

// UpdateUser partially updates the current user's own profile. On success
// the returned fields are shallow-merged into both durable storage and
// in-memory state: fields absent from the response keep their prior values.
// The outcome is reported as a bool so the form layer can render inline
// feedback instead of a global notification.
func (s *Store) UpdateUser(ctx context.Context, update ProfileUpdate) bool {
	payload, err := json.Marshal(update)
	if err != nil {
		s.log.WithError(err).Error("failed to encode profile update")
		return false
	}

	data, err := s.request(ctx, http.MethodPut, s.endpoints.UpdateUser(), bytes.NewReader(payload), "application/json")
	if err != nil {
		s.log.WithError(err).Warn("profile update failed")
		return false
	}
	if len(data) == 0 || string(data) == "null" {
		return false
	}

	// Shallow merge: decode the stored record into a generic map, then let
	// the response's top-level fields overwrite it.
	merged := map[string]any{}
	if stored := s.session.User(); len(stored) > 0 {
		if err := json.Unmarshal(stored, &merged); err != nil {
			s.log.WithError(err).Warn("stored user record is corrupt")
		}
	}
	if err := json.Unmarshal(data, &merged); err != nil {
		s.log.WithError(err).Warn("profile update response is not a user record")
		return false
	}

	finalJSON, err := json.Marshal(merged)
	if err != nil {
		return false
	}
	var finalUser User
	if err := json.Unmarshal(finalJSON, &finalUser); err != nil {
		return false
	}

	if err := s.session.Save(s.session.Token(), finalJSON); err != nil {
		s.log.WithError(err).Error("failed to persist updated user record")
		return false
	}
	s.mu.Lock()
	s.currentUser = &finalUser
	s.mu.Unlock()
	return true
}
