// Package logging assembles structured slog loggers and formatting helpers used
// across plexdate components.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Loggers are always passed explicitly to the components that
// need them; nothing here installs a process-wide default. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the tool.
package logging
