package config

import (
	"testing"
	"time"
)

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("SMARTCITY_EMAIL", "")
	t.Setenv("SMARTCITY_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing SMARTCITY_EMAIL")
	}

	t.Setenv("SMARTCITY_EMAIL", "admin@city.gov")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing SMARTCITY_PASSWORD")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMARTCITY_EMAIL", "admin@city.gov")
	t.Setenv("SMARTCITY_PASSWORD", "supersecret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.Email != "admin@city.gov" {
		t.Errorf("expected email 'admin@city.gov' but got %q", cfg.Email)
	}
	if cfg.UserServiceURL != "http://localhost:8081/api/user" {
		t.Errorf("unexpected default UserServiceURL: %q", cfg.UserServiceURL)
	}
	if cfg.ComplaintServiceURL != "http://localhost:8080/api/complaint" {
		t.Errorf("unexpected default ComplaintServiceURL: %q", cfg.ComplaintServiceURL)
	}
	if cfg.AssignmentServiceURL != "http://localhost:8082/api/work-assignment" {
		t.Errorf("unexpected default AssignmentServiceURL: %q", cfg.AssignmentServiceURL)
	}
	if cfg.MaxLoginRetries != 3 {
		t.Errorf("expected default MaxLoginRetries=3 but got %d", cfg.MaxLoginRetries)
	}
	if cfg.FetchInterval != 5*time.Minute {
		t.Errorf("expected default FetchInterval=5m but got %v", cfg.FetchInterval)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default HTTPTimeout=30s but got %v", cfg.HTTPTimeout)
	}
	if cfg.HealthPort != "8090" {
		t.Errorf("expected default HealthPort=8090 but got %q", cfg.HealthPort)
	}
	if cfg.DebugMode {
		t.Error("expected DebugMode to default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SMARTCITY_EMAIL", "admin@city.gov")
	t.Setenv("SMARTCITY_PASSWORD", "supersecret")
	t.Setenv("FETCH_INTERVAL", "90s")
	t.Setenv("USER_SERVICE_URL", "https://id.city.gov/api/user")
	t.Setenv("DEBUG_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.FetchInterval != 90*time.Second {
		t.Errorf("expected FetchInterval=90s but got %v", cfg.FetchInterval)
	}
	if cfg.UserServiceURL != "https://id.city.gov/api/user" {
		t.Errorf("expected overridden UserServiceURL but got %q", cfg.UserServiceURL)
	}
	if !cfg.DebugMode {
		t.Error("expected DebugMode to be true")
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SMARTCITY_EMAIL", "admin@city.gov")
	t.Setenv("SMARTCITY_PASSWORD", "supersecret")
	t.Setenv("FETCH_INTERVAL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if cfg.FetchInterval != 5*time.Minute {
		t.Errorf("expected fallback FetchInterval=5m but got %v", cfg.FetchInterval)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		UserServiceURL:       "http://localhost:8081/api/user",
		ComplaintServiceURL:  "http://localhost:8080/api/complaint",
		WorkerServiceURL:     "http://localhost:8082/api/worker",
		AssignmentServiceURL: "http://localhost:8082/api/work-assignment",
		Email:                "admin@city.gov",
		Password:             "supersecret",
		MaxLoginRetries:      0,
		FetchInterval:        time.Minute,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for MaxLoginRetries=0")
	}

	cfg.MaxLoginRetries = 3
	cfg.FetchInterval = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sub-second FetchInterval")
	}
}
