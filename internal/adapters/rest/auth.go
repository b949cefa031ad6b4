package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

type loginRequest struct {
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Usuario  string `json:"usuario"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Telefono string `json:"telefono,omitempty"`
}

type registerResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Login returns the raw response body so the session service can
// reconcile whichever payload shape this backend release produces.
func (c *Client) Login(ctx context.Context, username, password string) (json.RawMessage, error) {
	if username == "" || password == "" {
		return nil, &domain.RequestError{Class: domain.ClassValidation, Message: "username and password are required"}
	}

	raw, err := c.callRaw(ctx, http.MethodPost, "/login", loginRequest{Usuario: username, Password: password}, false)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return raw, nil
}

func (c *Client) Register(ctx context.Context, req ports.RegisterRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return &domain.RequestError{Class: domain.ClassValidation, Message: "username, email and password are required"}
	}

	var resp registerResponse
	err := c.call(ctx, http.MethodPost, "/registro", registerRequest{
		Nombre:   req.DisplayName,
		Usuario:  req.Username,
		Email:    req.Email,
		Password: req.Password,
		Telefono: req.Phone,
	}, false, &resp)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	// Some releases answer 200 with ok=false instead of an error
	// status.
	if !resp.OK && resp.Message != "" {
		return &domain.RequestError{Class: domain.ClassValidation, Message: resp.Message}
	}

	return nil
}

var errMissingID = errors.New("target id is required")
