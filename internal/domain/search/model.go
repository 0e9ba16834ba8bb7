// Package search implements the terminology search endpoint backing the
// autocomplete UI: POST /api/v1/search with caching, an optional WHO ICD-API
// upstream, a local mock fallback and an audit trail.
package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Module selects which ICD-11 linearization to search.
const (
	ModuleMMS = "MMS"
	ModuleTM2 = "TM2"
)

// Response source labels.
const (
	SourceMock  = "mock"
	SourceCache = "CACHE"
	SourceMMS   = "WHO_MMS"
	SourceTM2   = "WHO_TM2"
)

// Limit bounds for a single search.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Request is the POST /search body.
type Request struct {
	Q      string `json:"q"`
	Module string `json:"module"`
	Limit  int    `json:"limit"`
}

// Normalize trims the query, defaults the module and clamps the limit.
func (r *Request) Normalize() {
	r.Q = strings.TrimSpace(r.Q)
	r.Module = strings.ToUpper(strings.TrimSpace(r.Module))
	if r.Module == "" {
		r.Module = ModuleMMS
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// Hash derives the audit/cache key for the normalized request. The raw query
// text never appears in logs or the audit trail; only this hash does.
func (r *Request) Hash() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", strings.ToLower(r.Q), r.Module, r.Limit)))
	return hex.EncodeToString(sum[:])[:16]
}

// Result is a single matching code.
type Result struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Definition string `json:"definition,omitempty"`
}

// Response is the POST /search payload.
type Response struct {
	Source    string     `json:"source"`
	QueryHash string     `json:"query_hash"`
	Count     int        `json:"count"`
	Results   []Result   `json:"results"`
	CachedAt  *time.Time `json:"cached_at,omitempty"`
}
