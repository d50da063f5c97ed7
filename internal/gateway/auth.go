package gateway

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

type TenantLoginInput struct {
	Body struct {
		TenantSlug string `json:"tenantSlug" doc:"Tenant the user belongs to"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
}

type TenantLoginBody struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Message      string `json:"message,omitempty"`
	Debug        string `json:"debug,omitempty"`
}

type TenantLoginOutput struct {
	Status int
	Body   TenantLoginBody
}

// RegisterAuthRoutes wires the tenant login proxy. Backend error statuses
// pass through unchanged; only a total connection failure becomes the
// gateway's own 500. debug detail is attached outside production only.
func RegisterAuthRoutes(api huma.API, backendAPI TenantAPI, devMode bool) {
	huma.Register(api, huma.Operation{
		OperationID: "tenant-login",
		Method:      http.MethodPost,
		Path:        "/auth/tenant-login",
		Summary:     "Authenticate a tenant user via the backend",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *TenantLoginInput) (*TenantLoginOutput, error) {
		slug := input.Body.TenantSlug
		if slug == "" || input.Body.Email == "" || input.Body.Password == "" {
			return &TenantLoginOutput{
				Status: http.StatusBadRequest,
				Body:   TenantLoginBody{Success: false, Message: "missing required fields"},
			}, nil
		}

		result, err := backendAPI.Login(ctx, slug, input.Body.Email, input.Body.Password)
		if err != nil {
			log.Error().Err(err).Str("slug", slug).Msg("login proxy failed")
			body := TenantLoginBody{Success: false, Message: "backend connection failed"}
			if devMode {
				body.Debug = err.Error()
			}
			return &TenantLoginOutput{Status: http.StatusInternalServerError, Body: body}, nil
		}

		if !result.Success {
			message := result.Message
			if message == "" {
				message = "login failed"
			}
			return &TenantLoginOutput{
				Status: result.StatusCode,
				Body:   TenantLoginBody{Success: false, Message: message},
			}, nil
		}

		return &TenantLoginOutput{
			Status: http.StatusOK,
			Body: TenantLoginBody{
				Success:      true,
				AccessToken:  result.AccessToken,
				RefreshToken: result.RefreshToken,
				Message:      "login successful",
			},
		}, nil
	})
}
