package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/atelier/server/atelier/users"
	apperrors "codeberg.org/atelier/server/internal/errors"
	"codeberg.org/atelier/server/internal/logger"
)

// attempts to create a user before giving up on username collisions
const maxCreateAttempts = 3

// sustained password attempts per account per minute, and the burst
// allowed before throttling kicks in
const (
	loginAttemptsPerMinute = 10
	loginAttemptBurst      = 5
)

// Bridge resolves provider identities to canonical users: one
// reconciliation path for every credential front-end.
type Bridge struct {
	store    Store
	registry *Registry
	guard    *LoginGuard
}

// creates a new identity bridge
func NewBridge(store Store, registry *Registry) *Bridge {
	return &Bridge{
		store:    store,
		registry: registry,
		guard:    NewLoginGuard(loginAttemptsPerMinute, loginAttemptBurst),
	}
}

// validates a first-party username/password credential
func (b *Bridge) AuthenticateByPassword(ctx context.Context, username, password string) (*users.User, error) {
	if !b.guard.Allow(username) {
		return nil, ErrTooManyAttempts
	}

	user, err := b.store.FindByUsername(ctx, username)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	// externally-created users have no stored credential
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(*user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	b.guard.Reset(username)

	return user, nil
}

// verifies an external provider token and reconciles the asserted
// identity to a canonical user
func (b *Bridge) AuthenticateByExternalToken(ctx context.Context, provider, token string) (*users.User, error) {
	verifier, err := b.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	ident, err := verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderVerification, provider, err)
	}

	return b.Reconcile(ctx, ident)
}

// Reconcile maps a provider identity to exactly one canonical user:
// lookup by (provider, subject), else attach to the user owning the
// verified email, else create a new user with the default role.
func (b *Bridge) Reconcile(ctx context.Context, ident *Identity) (*users.User, error) {
	if ident == nil || ident.Provider == "" || ident.Subject == "" {
		return nil, fmt.Errorf("%w: missing provider identity", ErrProviderVerification)
	}

	user, err := b.store.FindByProviderSubject(ctx, ident.Provider, ident.Subject)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	// a new provider never duplicates a user that already owns the email
	if ident.Email != "" && ident.EmailVerified {
		user, err = b.store.FindByEmail(ctx, ident.Email)
		if err == nil {
			user, err = b.linkOrFollow(ctx, user, ident)
			if err != nil {
				return nil, err
			}

			logger.Info("linked external identity to existing user",
				"provider", ident.Provider,
				"user_id", user.ID,
			)

			return user, nil
		}

		if !errors.Is(err, users.ErrNotFound) {
			return nil, err
		}
	}

	return b.createFromIdentity(ctx, ident)
}

// links the identity to the user; when a concurrent request already
// claimed the (provider, subject) pair, the existing link wins and its
// user is returned instead
func (b *Bridge) linkOrFollow(ctx context.Context, user *users.User, ident *Identity) (*users.User, error) {
	linked, err := b.store.LinkIdentity(ctx, user.ID, ident.Provider, ident.Subject)
	if err != nil {
		return nil, err
	}

	if linked {
		return user, nil
	}

	return b.store.FindByProviderSubject(ctx, ident.Provider, ident.Subject)
}

// creates a new canonical user for a first-time external login
func (b *Bridge) createFromIdentity(ctx context.Context, ident *Identity) (*users.User, error) {
	email := ident.Email

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		username, err := deriveUsername(ident, attempt)
		if err != nil {
			return nil, err
		}

		user, err := b.store.Create(ctx, &users.CreateUserRequest{
			Username:    username,
			DisplayName: ident.DisplayName,
			Email:       email,
			Role:        users.DefaultRole,
			AvatarURL:   ident.AvatarURL,
		})

		if err == nil {
			return b.linkOrFollow(ctx, user, ident)
		}

		constraint, unique := apperrors.UniqueViolation(err)
		if !unique {
			return nil, err
		}

		if strings.Contains(constraint, "email") {
			// a verified email hitting the unique index means this
			// login lost a concurrent first-login race: the other
			// provider's insert won, so link to the winning row
			if ident.EmailVerified {
				user, findErr := b.store.FindByEmail(ctx, email)
				if findErr != nil {
					return nil, findErr
				}

				return b.linkOrFollow(ctx, user, ident)
			}

			// an unverified claimed email never attaches to the row
			// that owns it; the new account is created without it
			email = ""
			continue
		}

		// username collision: retry with a random suffix
		if strings.Contains(constraint, "username") {
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("could not allocate username for provider %s", ident.Provider)
}

// creates a canonical user from first-party registration data
func (b *Bridge) Register(ctx context.Context, req *RegisterRequest) (*users.User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user, err := b.store.Create(ctx, &users.CreateUserRequest{
		Username:     req.Username,
		DisplayName:  displayName,
		Email:        req.Email,
		Role:         users.DefaultRole,
		PasswordHash: &hash,
	})

	if err != nil {
		if constraint, unique := apperrors.UniqueViolation(err); unique {
			if strings.Contains(constraint, "username") {
				return nil, ErrDuplicateUsername
			}

			return nil, ErrDuplicateEmail
		}

		return nil, err
	}

	return user, nil
}

// builds a username from the identity; later attempts append a random
// suffix to dodge collisions
func deriveUsername(ident *Identity, attempt int) (string, error) {
	base := ident.Email
	if at := strings.IndexByte(base, '@'); at > 0 {
		base = base[:at]
	}

	base = sanitizeUsername(base)
	if base == "" {
		base = ident.Provider
	}

	if attempt == 0 && ident.Email != "" {
		return base, nil
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	return base + "-" + hex.EncodeToString(suffix), nil
}

// lowercases and strips characters outside [a-z0-9._-]
func sanitizeUsername(s string) string {
	var out strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			out.WriteRune(r)
		}
	}

	return out.String()
}
