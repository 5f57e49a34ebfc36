package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice/internal/domain"
)

func TestValidate_LoginForm(t *testing.T) {
	fv := NewValidator()

	require.NoError(t, fv.Validate(domain.LoginForm{Email: "a@b.com", Password: "secret"}))

	err := fv.Validate(domain.LoginForm{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "password is required")
}

func TestValidate_SignupPasswordLength(t *testing.T) {
	fv := NewValidator()

	err := fv.Validate(domain.SignupForm{Email: "a@b.com", Password: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}

func TestValidate_ProductForm(t *testing.T) {
	fv := NewValidator()

	err := fv.Validate(domain.ProductForm{Barcode: "B1", Name: "Soap", MRP: 0, ClientID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mrp must be greater than 0")
}
