package auth

import "context"

var (
	_ Checker = (*LoginChecker)(nil)
	_ Checker = (*LoginTestChecker)(nil)
)

// Checker tells whether a session token belongs to a logged in admin.
// An unknown or expired token is (false, nil); errors are left for the
// session store failing.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}
