package validator_test

import (
	"concierge/shared/failure"
	"concierge/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type shift string

func (s shift) IsValid() bool {
	return s == "morning" || s == "night"
}

type staffForm struct {
	Name    string `validate:"required" json:"name"`
	Email   string `validate:"required,email" json:"email"`
	Shift   shift  `validate:"required,enum" json:"shift"`
	StartOn string `validate:"omitempty,date" json:"start_on"`
}

func TestValidateStruct(t *testing.T) {
	valid := staffForm{Name: "Lisa", Email: "lisa@hotel.com", Shift: "night", StartOn: "2025-03-14"}

	tests := []struct {
		name    string
		mutate  func(f *staffForm)
		message string
	}{
		{name: "valid", mutate: func(*staffForm) {}},
		{name: "missing name", mutate: func(f *staffForm) { f.Name = "" }, message: "Name is required"},
		{name: "bad email", mutate: func(f *staffForm) { f.Email = "lisa" }, message: "Email must be a valid email address"},
		{name: "unknown enum value", mutate: func(f *staffForm) { f.Shift = "noon" }, message: "Shift has an unsupported value"},
		{name: "bad date", mutate: func(f *staffForm) { f.StartOn = "14/03/2025" }, message: "StartOn must be a date in YYYY-MM-DD format"},
		{name: "optional date omitted", mutate: func(f *staffForm) { f.StartOn = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			err := validator.ValidateStruct(&form)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}

			assert.EqualError(t, err, tt.message)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "uuid", field: "0b0c7f0e-1d4b-4e58-9a7b-3a4b9a6c2f10", tag: "uuid"},
		{name: "not a uuid", field: "42", tag: "uuid", wantErr: true},
		{name: "oneof", field: "pending", tag: "oneof=pending in_progress resolved"},
		{name: "outside oneof", field: "closed", tag: "oneof=pending in_progress resolved", wantErr: true},
		{name: "date", field: "2025-12-31", tag: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"name":"Lisa","email":"lisa@hotel.com","shift":"morning"}`},
		{name: "fails validation", body: `{"name":"Lisa","email":"lisa@hotel.com","shift":"noon"}`, wantErr: true},
		{name: "malformed body", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form staffForm
			err := validator.Validate(strings.NewReader(tt.body), &form)
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Lisa", form.Name)
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validator.ValidateID("5f0c8a52-2b4e-4a57-9a43-6d1f8a2c7b10"))

	for _, id := range []string{"", "42", "not-a-uuid"} {
		err := validator.ValidateID(id)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), id)
		assert.EqualError(t, err, "id must be a valid UUID")
	}
}
