// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package form // import "website.app/v2/internal/ui/form"

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// GithubCredential is sent to the auth API by the "Log in with GitHub"
// button instead of a typed email.
const GithubCredential = "test:email"

var validate = validator.New(validator.WithRequiredStructEnabled())

// AuthForm represents the login form.
type AuthForm struct {
	Email string `validate:"required"`
}

// AuthErrors marks fields of AuthForm which failed validation.
type AuthErrors struct {
	Email bool
}

// NewAuthForm returns a new AuthForm with the email as typed.
func NewAuthForm(r *http.Request) *AuthForm {
	return &AuthForm{Email: r.FormValue("email")}
}

// Validate returns nil if the email isn't empty. It's the only rule, even
// blanks are up to the auth API.
func (self *AuthForm) Validate() *AuthErrors {
	if err := validate.Struct(self); err != nil {
		return &AuthErrors{Email: true}
	}
	return nil
}

// Credential returns the credential sent to the auth API.
func (self *AuthForm) Credential() string { return self.Email }
