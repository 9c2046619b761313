package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/ngo-donations/internal/dashboard"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        AdminUser `json:"user"`
}

type AdminUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Login exchanges credentials for a token and stores it on sess.
func (c *Client) Login(ctx context.Context, sess *Session, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", nil, in, &resp); err != nil {
		return nil, err
	}
	sess.SetToken(resp.AccessToken)
	return &resp, nil
}

func (c *Client) Me(ctx context.Context, sess *Session) (*AdminUser, error) {
	var user AdminUser
	if err := c.do(ctx, sess, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DashboardStats(ctx context.Context, sess *Session) (*dashboard.Stats, error) {
	var stats dashboard.Stats
	if err := c.do(ctx, sess, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Resource is a conventional CRUD collection such as "inquiries" or "volunteers".
type Resource struct {
	client *Client
	name   string
}

func (c *Client) Resource(name string) *Resource {
	return &Resource{client: c, name: name}
}

func (r *Resource) path(id string) string {
	if id == "" {
		return "/" + r.name
	}
	return "/" + r.name + "/" + url.PathEscape(id)
}

func (r *Resource) List(ctx context.Context, sess *Session, query url.Values, out interface{}) error {
	return r.client.do(ctx, sess, http.MethodGet, r.path(""), query, nil, out)
}

func (r *Resource) Get(ctx context.Context, sess *Session, id string, out interface{}) error {
	return r.client.do(ctx, sess, http.MethodGet, r.path(id), nil, nil, out)
}

func (r *Resource) Create(ctx context.Context, sess *Session, in, out interface{}) error {
	return r.client.do(ctx, sess, http.MethodPost, r.path(""), nil, in, out)
}

func (r *Resource) Update(ctx context.Context, sess *Session, id string, in, out interface{}) error {
	return r.client.do(ctx, sess, http.MethodPut, r.path(id), nil, in, out)
}

func (r *Resource) Delete(ctx context.Context, sess *Session, id string) error {
	return r.client.do(ctx, sess, http.MethodDelete, r.path(id), nil, nil, nil)
}
