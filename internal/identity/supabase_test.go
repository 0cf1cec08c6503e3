package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSupabaseSecret = "super-secret-supabase-jwt-key"

func signSupabaseToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["aud"]; !ok {
		claims["aud"] = supabaseAudience
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestSupabaseVerifier_ValidToken(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	token := signSupabaseToken(t, testSupabaseSecret, jwt.MapClaims{
		"sub":   "sb-user-1",
		"email": "ada@example.com",
		"user_metadata": map[string]any{
			"full_name":  "Ada Lovelace",
			"avatar_url": "https://example.com/ada.png",
		},
	})

	ident, err := verifier.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, ProviderSupabase, ident.Provider)
	assert.Equal(t, "sb-user-1", ident.Subject)
	assert.Equal(t, "ada@example.com", ident.Email)
	assert.True(t, ident.EmailVerified)
	assert.Equal(t, "Ada Lovelace", ident.DisplayName)
	assert.Equal(t, "https://example.com/ada.png", ident.AvatarURL)
}

func TestSupabaseVerifier_WrongSecret(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	token := signSupabaseToken(t, "a-different-secret", jwt.MapClaims{"sub": "sb-user-1"})

	_, err := verifier.Verify(context.Background(), token)

	assert.Error(t, err, "token signed with a different secret should be rejected")
}

func TestSupabaseVerifier_WrongAudience(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	// anon and service tokens carry other audiences and never represent
	// a signed-in user
	token := signSupabaseToken(t, testSupabaseSecret, jwt.MapClaims{
		"sub": "sb-user-1",
		"aud": "anon",
	})

	_, err := verifier.Verify(context.Background(), token)

	assert.Error(t, err)
}

func TestSupabaseVerifier_ExpiredToken(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	token := signSupabaseToken(t, testSupabaseSecret, jwt.MapClaims{
		"sub": "sb-user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := verifier.Verify(context.Background(), token)

	assert.Error(t, err)
}

func TestSupabaseVerifier_MissingSubject(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	token := signSupabaseToken(t, testSupabaseSecret, jwt.MapClaims{
		"email": "ada@example.com",
	})

	_, err := verifier.Verify(context.Background(), token)

	assert.Error(t, err)
}

func TestSupabaseVerifier_NoneAlgorithmRejected(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "attacker",
		"aud": supabaseAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)

	assert.Error(t, err, "unsigned token should be rejected")
}

func TestSupabaseVerifier_NoEmail(t *testing.T) {
	verifier := NewSupabaseVerifier(testSupabaseSecret)

	token := signSupabaseToken(t, testSupabaseSecret, jwt.MapClaims{"sub": "sb-user-1"})

	ident, err := verifier.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Empty(t, ident.Email)
	assert.False(t, ident.EmailVerified)
}
