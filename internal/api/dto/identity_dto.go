package dto

import "github.com/zengest/platform/internal/domain"

// ListIdentitiesRequest filters the administrative listing. Nil filters
// match everything.
type ListIdentitiesRequest struct {
	Role   *string `json:"role,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// ListIdentitiesResponse returns public projections only.
type ListIdentitiesResponse struct {
	Identities []domain.PublicProfile `json:"identities"`
}

// SetIdentityActiveRequest suspends or restores an account. A suspended
// account keeps its record but is permanently refused authentication.
type SetIdentityActiveRequest struct {
	IdentityID string `json:"identityId"`
	Active     bool   `json:"active"`
}
