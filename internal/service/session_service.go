package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/auth"
	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/domain"
	"github.com/zengest/platform/internal/events"
	"github.com/zengest/platform/internal/repository"
	apperrors "github.com/zengest/platform/pkg/util"
)

// SessionService coordinates the session lifecycle of an identity: exactly
// one refresh token is honorable per identity at a time, and every
// successful login or refresh rotates it.
type SessionService struct {
	identities repository.IdentityRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// SessionDependencies encapsulates collaborator requirements.
type SessionDependencies struct {
	IdentityRepo repository.IdentityRepository
	Dispatcher   events.Dispatcher
}

// NewSessionService builds the service.
func NewSessionService(cfg config.Config, deps SessionDependencies) *SessionService {
	return &SessionService{
		identities: deps.IdentityRepo,
		tokens:     auth.NewTokenManager(cfg.Auth),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new identity, issues its first token pair and binds the
// refresh token.
func (s *SessionService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.identities.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewDuplicateIdentity()
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	role := domain.DefaultRole
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
		}
		role = parsed
	}

	secretHash, err := auth.HashSecret(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      domain.NormalizeEmail(req.Email),
		SecretHash: secretHash,
		Role:       role,
		Phone:      req.Phone,
		Active:     true,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateIdentity()
		}
		return nil, err
	}

	tokens, err := s.bindFreshPair(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventIdentityRegistered, identity.ID, events.IdentityRegisteredPayload{
		Email: identity.Email,
		Role:  identity.Role,
	})

	return &dto.AuthResponse{Tokens: tokens, User: identity.Profile()}, nil
}

// Login authenticates by email and secret and rotates the session. The
// failure for an unknown email and for a wrong secret is the same error so
// callers cannot enumerate accounts.
func (s *SessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	identity, err := s.identities.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if !identity.Active {
		return nil, apperrors.NewAccountDisabled()
	}
	if err := auth.CompareSecret(identity.SecretHash, req.Password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	// Rotation: any previously issued refresh token stops being honorable.
	tokens, err := s.bindFreshPair(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventIdentityLoggedIn, identity.ID, events.IdentityLoggedInPayload{Email: identity.Email})

	return &dto.AuthResponse{Tokens: tokens, User: identity.Profile()}, nil
}

// Refresh exchanges a still-honorable refresh token for a new pair. A token
// that is cryptographically valid but superseded by a later rotation is
// rejected; so is the loser of two concurrent refresh attempts.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*dto.TokensResponse, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.NewRefreshInvalid()
	}

	identity, err := s.identities.GetByID(ctx, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewRefreshInvalid()
		}
		return nil, err
	}
	if identity.RefreshBindingHash == nil {
		return nil, apperrors.NewRefreshInvalid()
	}
	if err := auth.CompareBinding(*identity.RefreshBindingHash, refreshToken); err != nil {
		return nil, apperrors.NewRefreshInvalid()
	}

	tokens, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}
	bindingHash, err := auth.HashBinding(tokens.RefreshToken, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.identities.RotateRefreshBinding(ctx, identity.ID, *identity.RefreshBindingHash, bindingHash); err != nil {
		if errors.Is(err, repository.ErrBindingConflict) {
			return nil, apperrors.NewRefreshInvalid()
		}
		return nil, err
	}

	return &dto.TokensResponse{Tokens: tokens}, nil
}

// Logout revokes the refresh binding. Idempotent: an already-revoked or
// unknown identity is not an error.
func (s *SessionService) Logout(ctx context.Context, identityID string) error {
	if err := s.identities.SetRefreshBinding(ctx, identityID, nil); err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return err
	}
	s.publish(ctx, events.EventSessionRevoked, identityID, nil)
	return nil
}

// Verify validates an access token and returns its claims. The identity
// store is never consulted: an unexpired token keeps authenticating for its
// full TTL even after logout or deactivation.
func (s *SessionService) Verify(accessToken string) (*dto.VerifyResponse, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperrors.NewTokenInvalid()
	}
	return &dto.VerifyResponse{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// ListIdentities returns public profiles filtered by role and active state.
func (s *SessionService) ListIdentities(ctx context.Context, req dto.ListIdentitiesRequest) (*dto.ListIdentitiesResponse, error) {
	var role *domain.Role
	if req.Role != nil {
		parsed, ok := domain.ParseRole(*req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *req.Role})
		}
		role = &parsed
	}

	identities, err := s.identities.List(ctx, role, req.Active)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.PublicProfile, 0, len(identities))
	for _, identity := range identities {
		profiles = append(profiles, identity.Profile())
	}
	return &dto.ListIdentitiesResponse{Identities: profiles}, nil
}

// SetIdentityActive suspends or restores an account. Suspension also revokes
// the current session; the record itself is retained.
func (s *SessionService) SetIdentityActive(ctx context.Context, req dto.SetIdentityActiveRequest) error {
	if err := s.identities.SetActive(ctx, req.IdentityID, req.Active); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("identity")
		}
		return err
	}
	if !req.Active {
		if err := s.identities.SetRefreshBinding(ctx, req.IdentityID, nil); err != nil && err != pgx.ErrNoRows {
			return err
		}
	}
	s.publish(ctx, events.EventIdentityActiveState, req.IdentityID, events.IdentityActiveStatePayload{Active: req.Active})
	return nil
}

// bindFreshPair issues a new token pair and stores the refresh binding hash
// in a single atomic write.
func (s *SessionService) bindFreshPair(ctx context.Context, identity *domain.Identity) (domain.TokenPair, error) {
	tokens, err := s.tokens.Issue(identity)
	if err != nil {
		return domain.TokenPair{}, err
	}
	bindingHash, err := auth.HashBinding(tokens.RefreshToken, s.bcryptCost)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.identities.SetRefreshBinding(ctx, identity.ID, &bindingHash); err != nil {
		return domain.TokenPair{}, err
	}
	return tokens, nil
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, identityID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		IdentityID: identityID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
