package services

import (
	"context"
	"encoding/json"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/repositories/metadata"
)

// AuthService exchanges credentials with the backend and keeps the
// authenticated identity in the local metadata store so it survives
// restarts.
type AuthService struct {
	client api.Client
	meta   metadata.Repository
	log    logging.Logger
}

func NewAuthService(client api.Client, meta metadata.Repository, log logging.Logger) *AuthService {
	return &AuthService{client: client, meta: meta, log: log}
}

// Restore loads the persisted identity, if any. A missing record yields
// (nil, nil). A record that fails to parse is discarded and likewise yields
// (nil, nil): corruption of local state must never block startup.
func (s *AuthService) Restore(ctx context.Context) (*models.Identity, error) {
	raw, err := s.meta.Get(ctx, metadata.KeyIdentity)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var ident models.Identity
	if err := json.Unmarshal(raw, &ident); err != nil || ident.Username == "" {
		s.log.Warn(ctx, "discarding corrupted persisted identity")
		_ = s.meta.Delete(ctx, metadata.KeyIdentity)
		return nil, nil
	}
	return &ident, nil
}

// Login authenticates against the backend and persists the returned
// identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	ident, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(ident)
	if err != nil {
		return nil, err
	}
	if err := s.meta.Set(ctx, metadata.KeyIdentity, raw); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "logged in", "user", ident.Username, "role", ident.Role)
	return ident, nil
}

// Signup registers a new account. It does not authenticate; the caller
// still has to log in explicitly.
func (s *AuthService) Signup(ctx context.Context, req api.SignupRequest) (*models.Identity, error) {
	if req.Role == "" {
		req.Role = models.RoleReader
	}
	return s.client.Signup(ctx, req)
}

// Logout clears the persisted identity. It never requires a backend round
// trip; the in-memory identity is the caller's to drop.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.meta.Delete(ctx, metadata.KeyIdentity)
}
