package authsync

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeRateLimited        = "TOO_MANY_ATTEMPTS"
	textCodeEmailTaken         = "EMAIL_ALREADY_REGISTERED"
	textCodeInvalidRole        = "INVALID_ROLE"
	textCodeDocumentNotFound   = "DOCUMENT_NOT_FOUND"
	textCodeProfileInvalid     = "PROFILE_INVALID"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is returned by sign-in with a wrong password or an
// unknown account. Both collapse into one message on purpose.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrRateLimited is returned when the provider refuses further sign-in attempts.
var ErrRateLimited = goerrors.New("too many attempts, try again later", goerrors.CategoryRateLimit).
	WithTextCode(textCodeRateLimited).
	WithCode(goerrors.CodeForbidden)

// ErrEmailTaken is returned by registration for an already-registered email.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(textCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrInvalidRole is returned when registration requests a role outside the
// closed enumeration.
var ErrInvalidRole = goerrors.New("unknown role", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidRole).
	WithCode(goerrors.CodeBadRequest)

// ErrDocumentNotFound is the document store's miss on a point lookup.
var ErrDocumentNotFound = goerrors.New("document not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeDocumentNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrProfileInvalid marks a stored profile that failed the decode schema. The
// synchronizer logs it and resolves the profile as nil, never surfaces it.
var ErrProfileInvalid = goerrors.New("stored profile is malformed", goerrors.CategoryValidation).
	WithTextCode(textCodeProfileInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenExpired is returned when validating an expired bearer token.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a bearer token cannot be parsed.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// IsDocumentNotFound checks for the point-lookup miss, unwrapping rich errors.
func IsDocumentNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrDocumentNotFound) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryNotFound
	}
	return false
}

// userMessage maps an action failure to the string surfaced in AuthState.
// Credential errors keep their message, anything else degrades to a generic
// one so internals never leak to the login form.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuth, goerrors.CategoryValidation,
			goerrors.CategoryConflict, goerrors.CategoryRateLimit:
			return richErr.Message
		}
	}
	return "something went wrong, please try again"
}
