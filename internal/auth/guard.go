package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Failure names why a request was refused.
type Failure int

const (
	FailureNone Failure = iota
	FailureMissingToken
	FailureInvalidToken
	FailureNotAdmin
	FailureLookupFailed
)

// Status is the HTTP status code reported for the failure.
func (f Failure) Status() int {
	switch f {
	case FailureNone:
		return http.StatusOK
	case FailureMissingToken, FailureInvalidToken:
		return http.StatusUnauthorized
	case FailureNotAdmin:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing error text for the failure.
func (f Failure) Message() string {
	switch f {
	case FailureMissingToken:
		return "Authentication required"
	case FailureInvalidToken:
		return "Invalid or expired token"
	case FailureNotAdmin:
		return "Admin access required"
	case FailureLookupFailed:
		return "Failed to verify access"
	default:
		return ""
	}
}

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureMissingToken:
		return "missing_token"
	case FailureInvalidToken:
		return "invalid_token"
	case FailureNotAdmin:
		return "not_admin"
	case FailureLookupFailed:
		return "lookup_failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a guard check: claims on success, a Failure
// otherwise. Err holds the underlying cause, if any, for logging.
type Result struct {
	Claims  *Claims
	Failure Failure
	Err     error
}

func (r Result) OK() bool {
	return r.Failure == FailureNone && r.Claims != nil
}

// AdminLookup reports whether a user carries the admin flag.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Guard authenticates bearer tokens and authorizes admin access.
type Guard struct {
	issuer *Issuer
	admins AdminLookup
}

func NewGuard(issuer *Issuer, admins AdminLookup) *Guard {
	return &Guard{issuer: issuer, admins: admins}
}

// RequireAuth validates the Authorization header value.
func (g *Guard) RequireAuth(header string) Result {
	token, ok := ExtractToken(header)
	if !ok {
		return Result{Failure: FailureMissingToken}
	}

	claims, err := g.issuer.VerifyToken(token)
	if err != nil {
		return Result{Failure: FailureInvalidToken, Err: err}
	}
	return Result{Claims: claims}
}

// RequireAdmin validates the header and then looks up the admin flag of the
// authenticated user.
func (g *Guard) RequireAdmin(ctx context.Context, header string) Result {
	res := g.RequireAuth(header)
	if !res.OK() {
		return res
	}

	isAdmin, err := g.admins.IsAdmin(ctx, res.Claims.UserID)
	if err != nil {
		return Result{Failure: FailureLookupFailed, Err: err}
	}
	if !isAdmin {
		return Result{Failure: FailureNotAdmin}
	}
	return res
}
