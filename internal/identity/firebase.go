package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultFirebaseEndpoint = "https://identitytoolkit.googleapis.com"
	firebaseRequestTimeout  = 10 * time.Second
)

// verifies Firebase ID tokens against the identitytoolkit lookup
// endpoint; covers both phone-OTP and Google sign-ins brokered by
// Firebase
type FirebaseVerifier struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type firebaseLookupRequest struct {
	IDToken string `json:"idToken"`
}

type firebaseLookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
		DisplayName   string `json:"displayName"`
		PhotoURL      string `json:"photoUrl"`
		PhoneNumber   string `json:"phoneNumber"`
	} `json:"users"`
}

// creates a Firebase token verifier
func NewFirebaseVerifier(apiKey string) *FirebaseVerifier {
	return &FirebaseVerifier{
		apiKey:   apiKey,
		endpoint: defaultFirebaseEndpoint,
		httpClient: &http.Client{
			Timeout: firebaseRequestTimeout,
		},
	}
}

// overrides the lookup endpoint; used by tests
func (v *FirebaseVerifier) WithEndpoint(endpoint string) *FirebaseVerifier {
	v.endpoint = endpoint
	return v
}

func (v *FirebaseVerifier) Name() string {
	return ProviderFirebase
}

// asks Firebase to resolve the ID token to an account record
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	result, err := v.lookup(ctx, token)

	// a transient network failure gets one retry; invalid tokens do not
	if err != nil && isTransient(err) {
		result, err = v.lookup(ctx, token)
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (v *FirebaseVerifier) lookup(ctx context.Context, token string) (*Identity, error) {
	payload, err := json.Marshal(firebaseLookupRequest{IDToken: token})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lookup request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/accounts:lookup?key=%s", v.endpoint, v.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		// transport-level failure: the token was never evaluated
		return nil, fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firebase rejected token (status %d)", resp.StatusCode)
	}

	var lookup firebaseLookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}

	if len(lookup.Users) == 0 {
		return nil, fmt.Errorf("firebase returned no account for token")
	}

	account := lookup.Users[0]
	if account.LocalID == "" {
		return nil, fmt.Errorf("firebase account missing local id")
	}

	displayName := account.DisplayName
	if displayName == "" && account.PhoneNumber != "" {
		displayName = account.PhoneNumber
	}

	return &Identity{
		Provider:      ProviderFirebase,
		Subject:       account.LocalID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		DisplayName:   displayName,
		AvatarURL:     account.PhotoURL,
	}, nil
}

var errTransient = errors.New("transient lookup failure")

// reports whether the error looks like a transient network failure
// rather than a rejected token
func isTransient(err error) bool {
	return errors.Is(err, errTransient)
}
