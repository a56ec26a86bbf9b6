// Package guard decides whether a protected route may render for the
// current session. The decision is pure: no I/O happens here, session
// resolution is the caller's problem.
package guard

import "github.com/plantmart/storefront-gateway/internal/models"

type Decision int

const (
	DecisionLoading Decision = iota
	DecisionUnauthenticated
	DecisionForbidden
	DecisionSellerPending
	DecisionSellerRejected
	DecisionAuthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	case DecisionSellerPending:
		return "seller_pending"
	case DecisionSellerRejected:
		return "seller_rejected"
	case DecisionAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

const (
	LoginRoute = "/auth"
	HomeRoute  = "/"
)

type Input struct {
	User           *models.User
	RequiredRole   *models.Role // nil means any authenticated user
	SessionLoading bool
}

type Outcome struct {
	Decision   Decision
	RedirectTo string
	Message    string
}

// Evaluate walks the decision table in order; the first matching row
// wins. The loading check must stay first: a route must never redirect
// to login while the session bootstrap is still in flight.
func Evaluate(in Input) Outcome {

	if in.SessionLoading {
		return Outcome{Decision: DecisionLoading}
	}

	if in.User == nil {
		return Outcome{
			Decision:   DecisionUnauthenticated,
			RedirectTo: LoginRoute,
		}
	}

	if in.RequiredRole != nil && in.User.UserType != *in.RequiredRole {
		return Outcome{
			Decision:   DecisionForbidden,
			RedirectTo: HomeRoute,
		}
	}

	if in.User.UserType == models.RoleSeller && in.User.ApplicationStatus == models.ApplicationPending {
		return Outcome{
			Decision: DecisionSellerPending,
			Message:  "Your seller application is still pending approval. Please wait for admin approval.",
		}
	}

	if in.User.UserType == models.RoleSeller && in.User.ApplicationStatus == models.ApplicationRejected {
		return Outcome{
			Decision: DecisionSellerRejected,
			Message:  "Your seller application was rejected. Please contact support for more information.",
		}
	}

	return Outcome{Decision: DecisionAuthorized}
}
