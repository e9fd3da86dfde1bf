package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// AuthService implements account registration and login.
type AuthService struct {
	store  ports.Store
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	audit  ports.AuditRecorder
	log    zerolog.Logger

	// decoy is verified against when the account does not exist so that
	// unknown emails cost the same as wrong passwords.
	decoy string
}

func NewAuthService(store ports.Store, hasher ports.PasswordHasher, tokens ports.TokenCodec, audit ports.AuditRecorder, log zerolog.Logger) *AuthService {
	decoy, err := hasher.Hash("newsroom-decoy-password")
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare decoy digest")
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens, audit: audit, log: log, decoy: decoy}
}

// Register creates an account. While no account exists the request needs no
// credential and the account becomes an admin; afterwards an admin token is
// required and the account is an editor.
func (s *AuthService) Register(ctx context.Context, cred policy.Credential, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Invalid("username, email and password are required")
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	var created *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Repositories) error {
		count, err := tx.Users().LockForCreate(ctx)
		if err != nil {
			return err
		}

		role := domain.RoleAdmin
		if count > 0 {
			if err := policy.Authorize(cred, policy.CreateAccount, nil); err != nil {
				return err
			}
			role = domain.RoleEditor
		}

		digest, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}

		created, err = tx.Users().Create(ctx, &domain.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: digest,
			Role:         role,
		})
		return err
	})
	recordOutcome(ctx, s.audit, "user.create", "user:"+in.Username, cred, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return created, nil
}

// Login verifies the password of the account registered under email and
// issues a session token. Unknown accounts and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(password, s.decoy)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, identity, err := s.tokens.Issue(domain.Identity{
		Subject: user.Email,
		UserID:  user.ID,
		Role:    user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.Session{Token: token, Identity: identity}, nil
}
