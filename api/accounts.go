package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Qoldo3/Django/model"
)

// TokenPair is what a successful credential exchange yields. Refresh may
// be empty; when present it is persisted but never redeemed here.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for tokens. It does not persist anything
// and does not fetch the profile; that orchestration belongs to the
// session holder.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	resp, err := c.do(ctx, http.MethodPost, "/accounts/api/v1/jwt/create/", bytes.NewReader(body), "application/json")
	if err != nil {
		return TokenPair{}, transportError("Invalid credentials", err)
	}
	raw := readBody(resp)

	if resp.StatusCode != http.StatusOK {
		return TokenPair{}, serverError(resp.StatusCode, raw, "Invalid credentials")
	}

	var pair TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil || pair.Access == "" {
		return TokenPair{}, &Error{Status: resp.StatusCode, Message: "Invalid credentials"}
	}
	return pair, nil
}

// Register creates an account. Success does not log the user in; callers
// chain Login with the same credentials. A 400 carries per-field error
// lists which are flattened into one multi-line message.
func (c *Client) Register(ctx context.Context, email, password, password1 string) error {
	body, _ := json.Marshal(map[string]string{
		"email":     email,
		"password":  password,
		"password1": password1,
	})

	resp, err := c.do(ctx, http.MethodPost, "/accounts/api/v1/register/", bytes.NewReader(body), "application/json")
	if err != nil {
		return transportError("Registration failed", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fieldErrors(raw, "Registration failed")
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return serverError(resp.StatusCode, raw, "Registration failed")
	}
}

// FetchProfile returns the profile of the bearer-token owner.
func (c *Client) FetchProfile(ctx context.Context) (model.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/accounts/api/v1/profile/", nil, "")
	if err != nil {
		return model.User{}, transportError("Failed to fetch profile", err)
	}
	raw := readBody(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return model.User{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return model.User{}, serverError(resp.StatusCode, raw, "Failed to fetch profile")
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.User{}, &Error{Status: resp.StatusCode, Message: "Failed to fetch profile"}
	}
	return user, nil
}

// ProfileInput carries a profile update. ImagePath, when set, points to a
// local image file to upload as the new avatar.
type ProfileInput struct {
	FirstName   string
	LastName    string
	Description string
	ImagePath   string
}

// UpdateProfile PATCHes the profile as multipart form data and returns
// the replacement profile. Partial mutation is not a thing: the server
// answer replaces the cached snapshot wholesale.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (model.User, error) {
	fields := map[string]string{
		"first_name":  in.FirstName,
		"last_name":   in.LastName,
		"description": in.Description,
	}
	body, contentType, err := multipartForm(fields, "image", in.ImagePath)
	if err != nil {
		return model.User{}, &Error{Message: fmt.Sprintf("Failed to update profile: %v", err), cause: err}
	}

	resp, err := c.do(ctx, http.MethodPatch, "/accounts/api/v1/profile/", body, contentType)
	if err != nil {
		return model.User{}, transportError("Failed to update profile", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.User{}, ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest:
		return model.User{}, fieldErrors(raw, "Failed to update profile")
	case resp.StatusCode != http.StatusOK:
		return model.User{}, serverError(resp.StatusCode, raw, "Failed to update profile")
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.User{}, &Error{Status: resp.StatusCode, Message: "Failed to update profile"}
	}
	return user, nil
}

// Activate redeems an account-activation token from the signup email.
func (c *Client) Activate(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodGet, "/accounts/api/v1/activate/"+token+"/", nil, "")
	if err != nil {
		return transportError("Activation failed", err)
	}
	raw := readBody(resp)

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return serverError(resp.StatusCode, raw, "Activation failed")
}

// RequestPasswordReset asks for a reset email. The endpoint answers with
// a success-shaped message whether or not the address exists, so the
// returned text is safe against account enumeration.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email})

	resp, err := c.do(ctx, http.MethodPost, "/accounts/api/v1/password-reset/", bytes.NewReader(body), "application/json")
	if err != nil {
		return "", transportError("Failed to request password reset", err)
	}
	raw := readBody(resp)

	if resp.StatusCode != http.StatusOK {
		return "", serverError(resp.StatusCode, raw, "Failed to request password reset")
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &payload)
	switch {
	case payload.Detail != "":
		return payload.Detail, nil
	case payload.Message != "":
		return payload.Message, nil
	}
	return "If the address exists, a reset email has been sent.", nil
}

// ConfirmPasswordReset sets a new password using an emailed reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirm string) error {
	body, _ := json.Marshal(map[string]string{
		"new_password":  newPassword,
		"new_password1": confirm,
	})

	resp, err := c.do(ctx, http.MethodPost, "/accounts/api/v1/password-reset/confirm/"+token+"/", bytes.NewReader(body), "application/json")
	if err != nil {
		return transportError("Failed to reset password", err)
	}
	raw := readBody(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fieldErrors(raw, "Invalid or expired reset link")
	default:
		return serverError(resp.StatusCode, raw, "Invalid or expired reset link")
	}
}
