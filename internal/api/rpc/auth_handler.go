package rpc

import (
	"context"
	"encoding/json"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/bus"
	"github.com/zengest/platform/internal/service"
	apperrors "github.com/zengest/platform/pkg/util"
)

// AuthHandler maps the auth.* bus subjects onto the session service.
type AuthHandler struct {
	sessions *service.SessionService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register wires every subject into the bus server.
func (h *AuthHandler) Register(server *bus.Server) {
	server.Handle(bus.SubjectRegister, h.register)
	server.Handle(bus.SubjectLogin, h.login)
	server.Handle(bus.SubjectRefresh, h.refresh)
	server.Handle(bus.SubjectLogout, h.logout)
	server.Handle(bus.SubjectVerify, h.verify)
	server.Handle(bus.SubjectIdentitiesList, h.listIdentities)
	server.Handle(bus.SubjectIdentityActive, h.setIdentityActive)
}

func (h *AuthHandler) register(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.RegisterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("firstName, lastName, email, password required", nil)
	}
	return h.sessions.Register(ctx, req)
}

func (h *AuthHandler) login(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.LoginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	return h.sessions.Login(ctx, req)
}

func (h *AuthHandler) refresh(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.RefreshRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RefreshToken == "" {
		return nil, apperrors.NewRefreshInvalid()
	}
	return h.sessions.Refresh(ctx, req.RefreshToken)
}

func (h *AuthHandler) logout(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.LogoutRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.sessions.Logout(ctx, req.IdentityID); err != nil {
		return nil, err
	}
	return dto.AckResponse{Message: "logged out"}, nil
}

func (h *AuthHandler) verify(_ context.Context, data json.RawMessage) (any, error) {
	var req dto.VerifyRequest
	if err := json.Unmarshal(data, &req); err != nil || req.AccessToken == "" {
		return nil, apperrors.NewTokenInvalid()
	}
	return h.sessions.Verify(req.AccessToken)
}

func (h *AuthHandler) listIdentities(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.ListIdentitiesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return h.sessions.ListIdentities(ctx, req)
}

func (h *AuthHandler) setIdentityActive(ctx context.Context, data json.RawMessage) (any, error) {
	var req dto.SetIdentityActiveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IdentityID == "" {
		return nil, apperrors.NewValidationError("identityId required", nil)
	}
	if err := h.sessions.SetIdentityActive(ctx, req); err != nil {
		return nil, err
	}
	return dto.AckResponse{Message: "updated"}, nil
}
