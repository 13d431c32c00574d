package handler

import (
	"net/mail"
	"strings"

	"go-blog-api/internal/model"
)

const minPasswordLength = 8

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validateLogin(req model.LoginRequest) error {
	ve := &model.ValidationError{}
	if !validEmail(req.Email) {
		ve.Add("email", "must be a valid email address")
	}
	if req.Password == "" {
		ve.Add("password", "must not be empty")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateRegister(req model.RegisterRequest) error {
	ve := &model.ValidationError{}
	if !validEmail(req.Email) {
		ve.Add("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		ve.Add("password", "must be at least 8 characters")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateCreatePost(req model.CreatePostRequest) error {
	ve := &model.ValidationError{}
	if strings.TrimSpace(req.Title) == "" {
		ve.Add("title", "must not be empty")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
