package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// AutofillProbe is a stub client for the planned GET autofill variant of the
// search endpoint. Until the server grows that endpoint it degrades
// gracefully: any non-200 answer yields no suggestions and no error.
type AutofillProbe struct {
	baseURL string
	httpc   *http.Client
}

// NewAutofillProbe creates a probe against the same base URL as Client.
func NewAutofillProbe(baseURL string, httpc *http.Client) *AutofillProbe {
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}
	return &AutofillProbe{baseURL: baseURL, httpc: httpc}
}

// Suggest returns autofill suggestions for the prefix, or nil when the
// endpoint is absent or the prefix is empty.
func (p *AutofillProbe) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}

	u := fmt.Sprintf("%s/search?q=%s", p.baseURL, url.QueryEscape(prefix))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}
	suggestions := make([]string, 0, len(payload.Results))
	for _, r := range payload.Results {
		suggestions = append(suggestions, r.Title)
	}
	return suggestions, nil
}
