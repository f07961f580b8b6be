// Package capability decides whether the current session should see a gated
// UI affordance. It re-derives the caller's permission set from the server on
// every check rather than trusting the copy cached at sign-in, which may be
// stale after a server-side permission change. This is a UX convenience, not
// a security boundary; every privileged endpoint enforces its own check.
package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/adminhub/rbac-console/models"
)

// State tracks the lifecycle of a capability check.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateAllowed
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateAllowed:
		return "resolved-allowed"
	case StateDenied:
		return "resolved-denied"
	default:
		return "unknown"
	}
}

// Session carries what the client captured at sign-in. CachedPermissions is
// the fallback permission list used when the authoritative fetch fails.
type Session struct {
	UserID            uint
	Token             string
	CachedPermissions []string
}

// Resolver checks capabilities against the console API.
type Resolver struct {
	baseURL string
	client  *http.Client
	session Session

	mu    sync.Mutex
	state State
}

// New returns a resolver for the API at baseURL (e.g. "https://host/api/v1").
func New(baseURL string, session Session) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		session: session,
		state:   StateIdle,
	}
}

// State returns the outcome of the most recent check. While a check is in
// flight it reports StateLoading, which callers must treat as denied.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Check reports whether the session's role holds the named permission. The
// authoritative role is fetched per call; on fetch failure the sign-in cache
// decides, and with no cache the answer is denied. No retries.
func (r *Resolver) Check(ctx context.Context, permission string) bool {
	if r.session.Token == "" || r.session.UserID == 0 {
		allowed := r.checkCached(permission)
		r.setResolved(allowed)
		return allowed
	}

	r.setState(StateLoading)

	role, err := r.fetchRole(ctx)
	if err != nil {
		allowed := r.checkCached(permission)
		r.setResolved(allowed)
		return allowed
	}

	allowed := role.HasPermission(permission)
	if !allowed {
		// The server set is authoritative but additive with the sign-in
		// cache, matching the dashboard's behavior
		allowed = r.checkCached(permission)
	}
	r.setResolved(allowed)
	return allowed
}

func (r *Resolver) setResolved(allowed bool) {
	if allowed {
		r.setState(StateAllowed)
	} else {
		r.setState(StateDenied)
	}
}

func (r *Resolver) checkCached(permission string) bool {
	for _, name := range r.session.CachedPermissions {
		if strings.EqualFold(name, permission) {
			return true
		}
	}
	return false
}

// fetchRole calls the get-role-from-user-id endpoint and returns the
// session's role with its permission set populated.
func (r *Resolver) fetchRole(ctx context.Context) (*models.Role, error) {
	url := fmt.Sprintf("%s/get-role-from-user-id/%d", r.baseURL, r.session.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.session.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("role fetch returned %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Role models.Role `json:"role"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("role fetch failed: %s", envelope.Message)
	}
	return &envelope.Data.Role, nil
}
