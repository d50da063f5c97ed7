package gateway

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

type TenantExistsInput struct {
	Slug string `query:"slug" doc:"Tenant slug to check"`
}

type TenantExistsBody struct {
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

type TenantExistsOutput struct {
	Status int
	Body   TenantExistsBody
}

// RegisterTenantRoutes wires the tenant-existence proxy. The status contract
// is fixed: 200 {exists:true} when the backend confirms the slug, 404
// {exists:false} when it does not, and 500 only for the gateway's own
// failures. Even a 500 must be read as "absent" by callers (fail-closed).
func RegisterTenantRoutes(api huma.API, backendAPI TenantAPI) {
	huma.Register(api, huma.Operation{
		OperationID: "check-tenant-exists",
		Method:      http.MethodGet,
		Path:        "/tenants/exists",
		Summary:     "Check whether a tenant slug exists",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TenantExistsInput) (*TenantExistsOutput, error) {
		if input.Slug == "" {
			return &TenantExistsOutput{
				Status: http.StatusBadRequest,
				Body:   TenantExistsBody{Exists: false, Error: "slug parameter is required"},
			}, nil
		}

		exists, err := backendAPI.TenantExists(ctx, input.Slug)
		if err != nil {
			log.Error().Err(err).Str("slug", input.Slug).Msg("existence check failed")
			return &TenantExistsOutput{
				Status: http.StatusInternalServerError,
				Body:   TenantExistsBody{Exists: false, Error: "failed to check tenant existence"},
			}, nil
		}

		if !exists {
			return &TenantExistsOutput{
				Status: http.StatusNotFound,
				Body:   TenantExistsBody{Exists: false},
			}, nil
		}

		return &TenantExistsOutput{
			Status: http.StatusOK,
			Body:   TenantExistsBody{Exists: true},
		}, nil
	})
}
