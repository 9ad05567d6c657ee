package domain

import "errors"

// ErrBadCredentials covers both "unknown username" and "wrong password" so
// the login endpoint cannot be used to enumerate usernames.
var ErrBadCredentials = errors.New("invalid credentials")

// ErrUserNotFound is the repository-level absence signal. The Authenticator
// collapses it into ErrBadCredentials before it reaches a caller.
var ErrUserNotFound = errors.New("user not found")

var ErrUserExists = errors.New("user already exists")

// ErrEmployeeNotFound means no employee row references the user id. During
// login this is not a failure; the issued token simply carries no empId.
var ErrEmployeeNotFound = errors.New("employee not found")

var ErrCustomerNotFound = errors.New("customer not found")

// ErrDirectoryUnavailable marks a transient upstream failure (store down,
// deadline expired). Callers may retry.
var ErrDirectoryUnavailable = errors.New("directory unavailable")

// ErrSigningFailure means the signing key is absent or the cryptographic
// primitive failed. Fatal for the request; surfaced as a server error.
var ErrSigningFailure = errors.New("token signing failure")

// ErrUnauthenticated is the single request-time rejection: missing header,
// malformed bearer, bad signature, or expired token.
var ErrUnauthenticated = errors.New("unauthenticated")

var ErrForbidden = errors.New("access forbidden")
