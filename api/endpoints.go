package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/doccare/docAuth/appointment"
	"github.com/doccare/docAuth/session"
)

// AuthResult is what a successful login or signup hands to the session.
type AuthResult struct {
	Profile session.Profile
	Token   string
	Message string
}

// User is one row of the administrative user listing.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// authResponse keeps only the fields that cross into the session.
type authResponse struct {
	User struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	} `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (r authResponse) result() *AuthResult {
	return &AuthResult{
		Profile: session.Profile{Name: r.User.Name, Email: r.User.Email, IsAdmin: r.User.IsAdmin},
		Token:   r.Token,
		Message: r.Message,
	}
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out authResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

// Signup posts a new account to /auth/signup.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out authResponse
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", in, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

// CreateAppointment books a. It returns the server's confirmation message.
func (c *Client) CreateAppointment(ctx context.Context, token string, a appointment.Appointment) (string, error) {
	a.ID = ""
	var out struct {
		Msg string `json:"msg"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", token, a, &out); err != nil {
		return "", err
	}
	return out.Msg, nil
}

// ListAppointments returns the caller's appointments.
func (c *Client) ListAppointments(ctx context.Context, token string) ([]appointment.Appointment, error) {
	var out struct {
		Appointments []appointment.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// UpdateAppointment replaces the appointment with a.ID.
func (c *Client) UpdateAppointment(ctx context.Context, token string, a appointment.Appointment) error {
	if a.ID == "" {
		return errors.New("api: appointment id is required")
	}
	return c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(a.ID), token, a, nil)
}

// DeleteAppointment removes the appointment with id.
func (c *Client) DeleteAppointment(ctx context.Context, token, id string) error {
	if id == "" {
		return errors.New("api: appointment id is required")
	}
	return c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), token, nil, nil)
}

// AdminUsers lists every account.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// AdminAppointments lists every appointment.
func (c *Client) AdminAppointments(ctx context.Context, token string) ([]appointment.Appointment, error) {
	var out struct {
		Appointments []appointment.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/appointments", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}
