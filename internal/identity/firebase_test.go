package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firebaseTestServer(t *testing.T, calls *int32, body string, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts:lookup", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck // test response
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFirebaseVerifier_GoogleAccount(t *testing.T) {
	var calls int32
	srv := firebaseTestServer(t, &calls, `{
		"users": [{
			"localId": "fb-123",
			"email": "ada@example.com",
			"emailVerified": true,
			"displayName": "Ada Lovelace",
			"photoUrl": "https://example.com/ada.png"
		}]
	}`, http.StatusOK)

	verifier := NewFirebaseVerifier("test-key").WithEndpoint(srv.URL)

	ident, err := verifier.Verify(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, ProviderFirebase, ident.Provider)
	assert.Equal(t, "fb-123", ident.Subject)
	assert.Equal(t, "ada@example.com", ident.Email)
	assert.True(t, ident.EmailVerified)
	assert.Equal(t, "Ada Lovelace", ident.DisplayName)
	assert.Equal(t, "https://example.com/ada.png", ident.AvatarURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFirebaseVerifier_PhoneAccount(t *testing.T) {
	var calls int32
	srv := firebaseTestServer(t, &calls, `{
		"users": [{
			"localId": "fb-phone-1",
			"phoneNumber": "+15550100"
		}]
	}`, http.StatusOK)

	verifier := NewFirebaseVerifier("test-key").WithEndpoint(srv.URL)

	ident, err := verifier.Verify(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "fb-phone-1", ident.Subject)
	assert.Empty(t, ident.Email)
	assert.False(t, ident.EmailVerified)
	assert.Equal(t, "+15550100", ident.DisplayName, "phone number stands in for a missing display name")
}

func TestFirebaseVerifier_RejectedTokenNotRetried(t *testing.T) {
	var calls int32
	srv := firebaseTestServer(t, &calls, `{"error": {"message": "INVALID_ID_TOKEN"}}`, http.StatusBadRequest)

	verifier := NewFirebaseVerifier("test-key").WithEndpoint(srv.URL)

	_, err := verifier.Verify(context.Background(), "bad-token")

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a rejected token gets no retry")
}

func TestFirebaseVerifier_RetriesTransportFailureOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// drop the first connection mid-request
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close() //nolint:errcheck // forced failure
			return
		}

		w.Write([]byte(`{"users": [{"localId": "fb-123"}]}`)) //nolint:errcheck // test response
	}))
	defer srv.Close()

	verifier := NewFirebaseVerifier("test-key").WithEndpoint(srv.URL)

	ident, err := verifier.Verify(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "fb-123", ident.Subject)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFirebaseVerifier_EmptyAccountList(t *testing.T) {
	var calls int32
	srv := firebaseTestServer(t, &calls, `{"users": []}`, http.StatusOK)

	verifier := NewFirebaseVerifier("test-key").WithEndpoint(srv.URL)

	_, err := verifier.Verify(context.Background(), "id-token")

	assert.Error(t, err)
}
