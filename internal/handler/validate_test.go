package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-blog-api/internal/model"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@example.co.uk", "user+tag@domain.io"}
	for _, email := range valid {
		assert.True(t, validEmail(email), email)
	}

	invalid := []string{"", "plainstring", "@x.com", "a@", "a b@x.com", "Display Name <a@x.com>"}
	for _, email := range invalid {
		assert.False(t, validEmail(email), email)
	}
}

func TestValidateRegister(t *testing.T) {
	err := validateRegister(model.RegisterRequest{Email: "a@x.com", Password: "longenough1"})
	assert.NoError(t, err)

	err = validateRegister(model.RegisterRequest{Email: "bad", Password: "short"})
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, validateLogin(model.LoginRequest{Email: "a@x.com", Password: "x"}))

	err := validateLogin(model.LoginRequest{Email: "a@x.com", Password: ""})
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Fields[0].Field)
}
