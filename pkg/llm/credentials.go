package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dskvich/ai-gallery/pkg/domain"
)

// CredentialResolver resolves the provider API key in two tiers: an
// operator-configured key wins; otherwise a shared fallback key is fetched
// from a fixed endpoint that returns it as raw text.
type CredentialResolver struct {
	apiKey      string
	fallbackURL string
	hc          *http.Client
}

func NewCredentialResolver(apiKey, fallbackURL string) *CredentialResolver {
	return &CredentialResolver{
		apiKey:      apiKey,
		fallbackURL: fallbackURL,
		hc:          &http.Client{},
	}
}

func (r *CredentialResolver) ResolveKey(ctx context.Context) (string, error) {
	if r.apiKey != "" {
		return r.apiKey, nil
	}

	if r.fallbackURL == "" {
		return "", domain.ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.fallbackURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating fallback credential request: %w", err)
	}

	resp, err := r.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching fallback credential: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fallback credential endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading fallback credential: %w", err)
	}

	key := strings.TrimSpace(string(body))
	if key == "" {
		return "", domain.ErrMissingCredential
	}

	return key, nil
}
