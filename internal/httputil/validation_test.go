package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Nickname *string `json:"nickname,omitempty" validate:"omitnil,min=1"`
}

func ptr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		input      signup
		wantFields []string
	}{
		{name: "valid", input: signup{Email: "ann@example.com", Password: "secret"}},
		{name: "missing email", input: signup{Password: "secret"}, wantFields: []string{"email"}},
		{name: "bad email", input: signup{Email: "nope", Password: "secret"}, wantFields: []string{"email"}},
		{name: "short password", input: signup{Email: "ann@example.com", Password: "12345"}, wantFields: []string{"password"}},
		{name: "empty optional", input: signup{Email: "ann@example.com", Password: "secret", Nickname: ptr("")}, wantFields: []string{"nickname"}},
		{name: "nil optional", input: signup{Email: "ann@example.com", Password: "secret", Nickname: nil}},
		{name: "everything wrong", input: signup{}, wantFields: []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := Validate(&tt.input)

			fields := make([]string, 0, len(details))
			for _, d := range details {
				fields = append(fields, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	details := Validate(&signup{Email: "ann@example.com", Password: "123"})
	require.Len(t, details, 1)
	assert.Equal(t, "password must be at least 6 characters", details[0].Message)
}

func TestDecodeJSON(t *testing.T) {
	var dst signup

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x","extra":1}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "a@b.co", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.Error(t, DecodeJSON(req, &dst))
}

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondValidationError(rec, []FieldError{{Field: "email", Message: "email is required"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, CodeValidationFailed, body.Code)
	assert.Equal(t, []FieldError{{Field: "email", Message: "email is required"}}, body.Details)
}

func TestRespondErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondErrorWithCode(rec, "user not found", CodeUserNotFound, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found","code":"USER_NOT_FOUND"}`, rec.Body.String())
}
