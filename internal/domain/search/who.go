package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// WHOClient queries the WHO ICD-API search endpoints. It is optional: when
// the server has no upstream configured the service answers from the local
// reference dataset instead.
type WHOClient struct {
	mmsURL string
	tm2URL string
	apiKey string
	http   *http.Client
}

func NewWHOClient(mmsURL, tm2URL, apiKey string, timeout time.Duration) *WHOClient {
	return &WHOClient{
		mmsURL: mmsURL,
		tm2URL: tm2URL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

// whoEnvelope covers the shapes the ICD-API returns across releases:
// destinationEntities for linearization search, items/results for the
// flexisearch variants.
type whoEnvelope struct {
	DestinationEntities []whoEntity `json:"destinationEntities"`
	Items               []whoEntity `json:"items"`
	Results             []whoEntity `json:"results"`
}

type whoEntity struct {
	TheCode    string `json:"theCode"`
	Code       string `json:"code"`
	Title      string `json:"title"`
	Definition string `json:"definition"`
}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Search queries the upstream for the given module and returns normalized
// results. Any failure is returned to the caller, which degrades to the
// local dataset.
func (c *WHOClient) Search(ctx context.Context, q, module string, limit int) ([]Result, error) {
	base := c.mmsURL
	if module == ModuleTM2 {
		base = c.tm2URL
	}
	if base == "" {
		return nil, fmt.Errorf("no upstream URL for module %s", module)
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse upstream URL: %w", err)
	}
	query := u.Query()
	query.Set("q", q)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("API-Version", "v2")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}

	var env whoEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}

	entities := env.DestinationEntities
	if len(entities) == 0 {
		entities = env.Items
	}
	if len(entities) == 0 {
		entities = env.Results
	}

	results := make([]Result, 0, limit)
	for _, e := range entities {
		code := e.TheCode
		if code == "" {
			code = e.Code
		}
		if code == "" {
			continue
		}
		results = append(results, Result{
			Code:       code,
			Title:      htmlTag.ReplaceAllString(e.Title, ""),
			Definition: htmlTag.ReplaceAllString(e.Definition, ""),
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
