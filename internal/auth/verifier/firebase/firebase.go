package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

const oobCodeURL = "https://identitytoolkit.googleapis.com/v1/accounts:sendOobCode"

// Client verifies Firebase ID tokens via OIDC discovery and talks to the
// identitytoolkit REST API for email verification links. It returns
// identity facts only; user provisioning happens elsewhere.
type Client struct {
	projectID string
	apiKey    string
	verifier  *oidc.IDTokenVerifier
	http      *http.Client
}

// New initializes the Firebase client. issuer must be the securetoken
// issuer for the project; the project ID doubles as the token audience.
func New(ctx context.Context, issuer, projectID, apiKey string) (*Client, error) {
	if issuer == "" || projectID == "" {
		return nil, errors.New("firebase config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase oidc provider: %w", err)
	}

	idVerifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: projectID,
	})

	return &Client{
		projectID: projectID,
		apiKey:    apiKey,
		verifier:  idVerifier,
		http:      &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Verify validates a Firebase ID token and returns the verified identity.
// Every failure cause collapses into verifier.ErrAuthenticationFailed.
func (c *Client) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	idToken, err := c.verifier.Verify(ctx, token)
	if err != nil {
		logger.Warn("firebase id token rejected", zap.Error(err))
		return nil, verifier.ErrAuthenticationFailed
	}

	var claims struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		logger.Warn("firebase id token claims parse failed", zap.Error(err))
		return nil, verifier.ErrAuthenticationFailed
	}

	uid := claims.UserID
	if uid == "" {
		uid = idToken.Subject
	}
	if uid == "" {
		return nil, verifier.ErrAuthenticationFailed
	}

	return &auth.Identity{
		UID:         uid,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

type oobCodeRequest struct {
	RequestType        string `json:"requestType"`
	Email              string `json:"email"`
	ContinueURL        string `json:"continueUrl,omitempty"`
	CanHandleCodeInApp bool   `json:"canHandleCodeInApp"`
	ReturnOobLink      bool   `json:"returnOobLink"`
}

type oobCodeResponse struct {
	OobLink string `json:"oobLink"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EmailVerificationLink asks Firebase for an email verification link
// without sending its own mail; delivery stays with our mailer.
func (c *Client) EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("firebase api key not configured")
	}

	body, err := json.Marshal(oobCodeRequest{
		RequestType:        "VERIFY_EMAIL",
		Email:              email,
		ContinueURL:        continueURL,
		CanHandleCodeInApp: true,
		ReturnOobLink:      true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oobCodeURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("firebase oob code request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed oobCodeResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("firebase oob code response malformed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("firebase oob code rejected: %s", parsed.Error.Message)
	}
	if parsed.OobLink == "" {
		return "", errors.New("firebase returned no verification link")
	}

	return parsed.OobLink, nil
}
