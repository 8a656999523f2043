package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUserExists is returned when the auth provider already has an account
// for the email.
var ErrUserExists = errors.New("supabase: user already registered")

// AdminClient calls the auth admin API with the service-role key.
type AdminClient struct {
	http *resty.Client
}

type adminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiError struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
	ErrCode string `json:"error_code"`
}

func (e *apiError) text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

func NewAdminClient(baseURL, serviceKey string) *AdminClient {
	client := resty.New().
		SetBaseURL(baseURL+"/auth/v1").
		SetTimeout(15*time.Second).
		SetHeader("apikey", serviceKey).
		SetAuthToken(serviceKey).
		SetHeader("Content-Type", "application/json")
	return &AdminClient{http: client}
}

// CreateUser creates a confirmed account and returns its id.
func (c *AdminClient) CreateUser(ctx context.Context, email, password string, metadata map[string]any) (string, error) {
	var out adminUser
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"email":         email,
			"password":      password,
			"email_confirm": true,
			"user_metadata": metadata,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/admin/users")
	if err != nil {
		return "", fmt.Errorf("supabase: create user: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnprocessableEntity || apiErr.ErrCode == "email_exists" {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("supabase: create user: status %d: %s", resp.StatusCode(), apiErr.text())
	}
	if out.ID == "" {
		return "", errors.New("supabase: create user: empty id in response")
	}
	return out.ID, nil
}

func (c *AdminClient) UpdatePassword(ctx context.Context, userID, password string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetBody(map[string]any{"password": password}).
		SetError(&apiErr).
		Put("/admin/users/{id}")
	if err != nil {
		return fmt.Errorf("supabase: update password: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("supabase: update password: status %d: %s", resp.StatusCode(), apiErr.text())
	}
	return nil
}

// DeleteUser removes the account. A missing account is not an error.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetError(&apiErr).
		Delete("/admin/users/{id}")
	if err != nil {
		return fmt.Errorf("supabase: delete user: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("supabase: delete user: status %d: %s", resp.StatusCode(), apiErr.text())
	}
	return nil
}
