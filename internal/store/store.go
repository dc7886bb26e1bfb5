package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"smartcity/internal/api"
	apperrors "smartcity/internal/errors"
	"smartcity/internal/metrics"
	"smartcity/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier receives the outcome of fire-and-forget mutations. Implementations
// must be nil-safe no-ops when notifications are not configured.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// Store is the session and aggregation store.
//
// It owns the auth token and current-user record, exposes typed fetch and
// mutate operations against the three backend services, joins their
// collections into display-ready records, and re-fetches everything after
// any mutating operation. The server is the only source of truth: no
// optimistic local mutation is ever applied.
type Store struct {
	endpoints api.Endpoints
	client    *http.Client
	session   *session.Store
	notifier  Notifier
	log       *logrus.Entry

	mu             sync.RWMutex
	currentUser    *User
	complaints     []EnrichedComplaint
	allUsers       []User
	allAssignments []EnrichedAssignment
	loading        bool
	lastErr        error
}

// New creates a store over the given endpoints and durable session storage.
// notifier may be nil; client defaults to the shared pooled client.
func New(endpoints api.Endpoints, sess *session.Store, client *http.Client, notifier Notifier, log *logrus.Entry) *Store {
	if client == nil {
		client = api.GetHTTPClient()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{
		endpoints: endpoints,
		client:    client,
		session:   sess,
		notifier:  notifier,
		log:       log,
	}
}

// Restore rebuilds the in-memory session from durable storage without any
// network call. It returns the restored user, or nil if there is no stored
// session or the stored token has expired.
func (s *Store) Restore() *User {
	if !s.session.HasSession() {
		return nil
	}
	if session.TokenExpired(s.session.Token()) {
		s.log.Info("stored token has expired, login required")
		_ = s.session.Clear()
		return nil
	}

	var user User
	if err := json.Unmarshal(s.session.User(), &user); err != nil {
		s.log.WithError(err).Warn("stored user record is corrupt, login required")
		_ = s.session.Clear()
		return nil
	}

	s.mu.Lock()
	s.currentUser = &user
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"user": user.Email, "role": user.Role}).
		Info("session restored from storage")
	return &user
}

// IsSignedIn reports whether a bearer token is present in durable storage.
func (s *Store) IsSignedIn() bool {
	return s.session.Token() != ""
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

// Complaints returns the current enriched complaint view.
func (s *Store) Complaints() []EnrichedComplaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EnrichedComplaint(nil), s.complaints...)
}

// AllUsers returns the cached user collection (admin sessions only).
func (s *Store) AllUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]User(nil), s.allUsers...)
}

// AllAssignments returns the current enriched assignment view.
func (s *Store) AllAssignments() []EnrichedAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EnrichedAssignment(nil), s.allAssignments...)
}

// Loading reports whether an aggregate fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last aggregate fetch, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Login sends credentials to the identity service. On a success response
// containing a token and user record it persists both and updates in-memory
// state. The envelope is returned even for rejected credentials so the
// caller can inspect its status and message; the error is non-nil only for
// transport or decode failures.
func (s *Store) Login(ctx context.Context, email, password string) (*Envelope, error) {
	payload := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, s.endpoints.Login(), payload)
}

// Register builds a role-shaped payload from the generic form, discarding
// fields irrelevant to the chosen role, and registers the user. The
// success/persist contract matches Login.
func (s *Store) Register(ctx context.Context, form RegistrationForm) (*Envelope, error) {
	payload := map[string]any{
		"name":     form.Name,
		"email":    form.Email,
		"password": form.Password,
		"role":     form.Role,
	}
	switch form.Role {
	case RoleCitizen:
		payload["phoneNumber"] = form.PhoneNumber
		payload["address"] = form.Address
		payload["city"] = form.City
		payload["pinCode"] = form.PinCode
	case RoleWorker:
		payload["phoneNumber"] = form.PhoneNumber
		payload["specialization"] = form.Specialization
	}
	return s.authenticate(ctx, s.endpoints.Register(), payload)
}

// authenticate posts credentials or a registration payload and persists the
// returned session on success.
func (s *Store) authenticate(ctx context.Context, url string, payload any) (*Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveRequest(s.endpoints.ServiceOf(url), http.MethodPost, "network_error", time.Since(start))
		return nil, apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(s.endpoints.ServiceOf(url), http.MethodPost, strconv.Itoa(resp.StatusCode), time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && len(env.Data) > 0 {
		var auth authPayload
		if err := json.Unmarshal(env.Data, &auth); err == nil && auth.Token != "" {
			userJSON, err := json.Marshal(auth.User)
			if err != nil {
				return nil, err
			}
			if err := s.session.Save(auth.Token, userJSON); err != nil {
				return nil, fmt.Errorf("failed to persist session: %w", err)
			}
			s.mu.Lock()
			s.currentUser = &auth.User
			s.mu.Unlock()
			s.log.WithFields(logrus.Fields{"user": auth.User.Email, "role": auth.User.Role}).
				Info("signed in")
		}
	}

	return &env, nil
}

// Logout clears durable storage and all in-memory session and cached
// collection state. Idempotent.
func (s *Store) Logout() {
	if err := s.session.Clear(); err != nil {
		s.log.WithError(err).Warn("failed to clear session storage")
	}

	s.mu.Lock()
	s.currentUser = nil
	s.complaints = nil
	s.allUsers = nil
	s.allAssignments = nil
	s.lastErr = nil
	s.mu.Unlock()
}

// request performs an authenticated call against a protected endpoint.
//
// The bearer token is sourced fresh from durable storage on every call, not
// from memory captured at construction, so a logout elsewhere is seen
// immediately. Behavior:
//   - no token present: NotAuthenticatedError, no request is made
//   - 401/403: the session is cleared and SessionExpiredError is returned;
//     callers must not double-report it as a generic failure
//   - other non-2xx: APIError carrying the server message when present,
//     else the HTTP status text
//   - 204 or empty body: resolves to a nil payload without touching the
//     JSON decoder (decoding an empty body fails)
//   - otherwise: the envelope's data field
func (s *Store) request(ctx context.Context, method, url string, body io.Reader, contentType string) (json.RawMessage, error) {
	token := s.session.Token()
	if token == "" {
		return nil, apperrors.NewNotAuthenticatedError()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveRequest(s.endpoints.ServiceOf(url), method, "network_error", time.Since(start))
		return nil, apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(s.endpoints.ServiceOf(url), method, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.log.WithField("url", url).Info("token rejected by service, logging out")
		s.Logout()
		return nil, apperrors.NewSessionExpiredError(fmt.Sprintf("%s %s returned %d", method, url, resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var env Envelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, apperrors.NewAPIError(resp.StatusCode, msg)
	}

	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return env.Data, nil
}

// getJSON performs an authenticated GET and unwraps the payload into out.
// A nil payload (204 or null data) leaves out at its zero value.
func (s *Store) getJSON(ctx context.Context, url string, out any) error {
	data, err := s.request(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, out)
}

// notify reports a mutation outcome through the configured notifier.
func (s *Store) notify(ctx context.Context, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, title, message)
}
