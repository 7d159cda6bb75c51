// Package gotrue is a minimal client for the GoTrue (Supabase Auth) REST
// API: password sign-up and password sign-in.
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
)

// Error is a non-2xx answer from the provider. Error() yields the
// provider's own message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("apikey", apiKey).
			SetAuthToken(apiKey),
	}
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers a user. GoTrue answers with a bare user while email
// confirmation is pending and with a session embedding the user otherwise;
// either way the user document is returned as the provider sent it.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.Identity, error) {
	body, err := c.post(ctx, "/auth/v1/signup", nil, signUpRequest{Email: email, Password: password, Data: metadata})
	if err != nil {
		return nil, err
	}

	var session struct {
		User *domain.Identity `json:"user"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, errors.Wrap(err, "decode provider response")
	}
	if session.User != nil && session.User.ID != "" {
		return session.User, nil
	}

	var id domain.Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, errors.Wrap(err, "decode provider response")
	}
	if id.ID == "" {
		return nil, &Error{Status: http.StatusBadGateway, Message: "identity provider returned no user"}
	}
	return &id, nil
}

// SignInWithPassword exchanges credentials for a session. The session keeps
// every field the provider sent.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body, err := c.post(ctx, "/auth/v1/token", map[string]string{"grant_type": "password"},
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var session domain.AuthSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, errors.Wrap(err, "decode provider response")
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, path string, query map[string]string, in any) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetBody(in).
		Post(path)
	if err != nil {
		return nil, errors.Wrapf(err, "call identity provider %s", path)
	}
	if !res.IsSuccess() {
		return nil, &Error{Status: res.StatusCode(), Message: errorMessage(res.StatusCode(), res.Body())}
	}
	return res.Body(), nil
}

// errorMessage picks the most specific message GoTrue put in the body.
func errorMessage(status int, body []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("identity provider returned %d", status)
}
