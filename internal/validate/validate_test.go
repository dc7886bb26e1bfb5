package validate

import (
	"testing"

	apperrors "smartcity/internal/errors"
	"smartcity/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func citizenForm() store.RegistrationForm {
	return store.RegistrationForm{
		Name:        "Sam Rivera",
		Email:       "sam@example.com",
		Password:    "longenough",
		Role:        store.RoleCitizen,
		PhoneNumber: "9876543210",
		Address:     "14 Canal Street",
		City:        "Rivertown",
		PinCode:     "395007",
	}
}

func TestRegistrationValid(t *testing.T) {
	fv := New()
	assert.NoError(t, fv.Registration(citizenForm()))

	worker := store.RegistrationForm{
		Name:           "Alex Kim",
		Email:          "alex@example.com",
		Password:       "longenough",
		Role:           store.RoleWorker,
		PhoneNumber:    "9876543210",
		Specialization: "ELECTRICITY",
	}
	assert.NoError(t, fv.Registration(worker))
}

func TestRegistrationFieldRules(t *testing.T) {
	fv := New()

	tests := []struct {
		name   string
		mutate func(*store.RegistrationForm)
	}{
		{"bad email", func(f *store.RegistrationForm) { f.Email = "not-an-email" }},
		{"short password", func(f *store.RegistrationForm) { f.Password = "short" }},
		{"phone too short", func(f *store.RegistrationForm) { f.PhoneNumber = "12345" }},
		{"phone not digits", func(f *store.RegistrationForm) { f.PhoneNumber = "987654321x" }},
		{"pin wrong length", func(f *store.RegistrationForm) { f.PinCode = "1234" }},
		{"unknown role", func(f *store.RegistrationForm) { f.Role = "MAYOR" }},
		{"missing name", func(f *store.RegistrationForm) { f.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := citizenForm()
			tt.mutate(&form)
			err := fv.Registration(form)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "expected a ValidationError, got %T", err)
		})
	}
}

func TestRegistrationRoleShapedRequireds(t *testing.T) {
	fv := New()

	citizen := citizenForm()
	citizen.Address = ""
	err := fv.Registration(citizen)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	worker := store.RegistrationForm{
		Name:        "Alex Kim",
		Email:       "alex@example.com",
		Password:    "longenough",
		Role:        store.RoleWorker,
		PhoneNumber: "9876543210",
	}
	err = fv.Registration(worker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specialization")

	// Admins need no role-shaped extras
	admin := store.RegistrationForm{
		Name:     "Root Admin",
		Email:    "admin@city.gov",
		Password: "longenough",
		Role:     store.RoleAdmin,
	}
	assert.NoError(t, fv.Registration(admin))
}

func TestProfileUpdate(t *testing.T) {
	fv := New()

	assert.NoError(t, fv.Profile(store.ProfileUpdate{PhoneNumber: "9876543210"}))
	assert.NoError(t, fv.Profile(store.ProfileUpdate{})) // all fields optional

	err := fv.Profile(store.ProfileUpdate{PinCode: "12"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestComplaintForm(t *testing.T) {
	fv := New()

	assert.NoError(t, fv.Complaint(store.ComplaintForm{
		Title:       "Streetlight out",
		Description: "Lamp at 5th and Main has been dark for a week",
		Category:    "ELECTRICITY",
	}))

	err := fv.Complaint(store.ComplaintForm{Title: "Streetlight out"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
