package plex

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates Plex rejected the token (HTTP 401).
	ErrUnauthorized = errors.New("plex: unauthorized")
	// ErrNotFound indicates a library section or metadata item does not exist.
	ErrNotFound = errors.New("plex: not found")
)

// ConnectionError reports that the server could not be reached or answered
// with an unexpected status.
type ConnectionError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("plex %s returned %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("plex %s unreachable: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ErrorKind tags an error returned by this package.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindAuth
	KindNotFound
	KindConnection
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection"
	default:
		return "other"
	}
}

// Classify maps err onto the package error taxonomy. A *ConnectionError
// always classifies as KindConnection, whatever it wraps.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindAuth
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return KindConnection
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindOther
}
