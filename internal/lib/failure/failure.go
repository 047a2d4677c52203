// Package failure carries the user-facing side of errors: a fixed message
// per feature area, and sign-in redirects for anonymous users.
package failure

import "errors"

var ErrSignInRequired = errors.New("sign in required")

const SignInPath = "/sign-in"

// Error pairs the message shown to the user with the underlying cause.
type Error struct {
	Message string
	Err     error
}

func New(message string, err error) *Error {
	return &Error{Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing text of err, or fallback when err does
// not carry one.
func Message(err error, fallback string) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return fallback
}

// Redirect asks the caller to navigate to To.
type Redirect struct {
	To string
}

// SignIn builds the redirect to the sign-in page carrying a return path.
func SignIn(returnPath string) *Redirect {
	return &Redirect{To: SignInPath + "?redirect=" + returnPath}
}

func (r *Redirect) Error() string { return "redirect to " + r.To }

func (r *Redirect) Is(target error) bool { return target == ErrSignInRequired }

func IsRedirect(err error) (*Redirect, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
