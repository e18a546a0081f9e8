package domain

// TokenPair bundles the two independently signed session artifacts. The
// access token is short-lived and carries identity plus role; the refresh
// token is long-lived, carries only the subject id, and is honorable only
// while its hash matches the identity's stored binding.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
