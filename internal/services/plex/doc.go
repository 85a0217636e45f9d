// Package plex talks to a Plex Media Server over its XML HTTP API.
//
// Client authenticates with a token and exposes the server identity and
// library sections. Section narrows calls to one library: title search,
// added-at edits, and metadata reloads. Failures are reported through a small
// error taxonomy (ErrUnauthorized, ErrNotFound, *ConnectionError) that callers
// inspect with errors.Is/errors.As or Classify instead of matching strings.
//
// Reuse these helpers when adding new Plex-related behaviours instead of
// reinventing HTTP glue in the updater or CLI packages.
package plex
