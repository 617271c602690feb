package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyToken asks the server whether token is still valid. The token is
// sent explicitly instead of being read from the TokenSource.
func (c *Client) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	var resp models.VerifyResponse
	if err := c.Do(withToken(ctx, token), http.MethodPost, "/auth/verify-token", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.Do(ctx, http.MethodGet, "/auth/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodPost, "/auth/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodPut, "/auth/users/"+escape(id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/auth/users/"+escape(id), nil, nil)
}
