package logger

import "balance_dashboard/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level helpers,
// so services log through whatever handler Init installed.
type slogAdapter struct {
	component string
}

// NewSlogAdapter creates a port.Logger. A non-empty component is attached to every entry.
func NewSlogAdapter(component string) port.Logger {
	return &slogAdapter{component: component}
}

func (a *slogAdapter) with(args []any) []any {
	if a.component == "" {
		return args
	}
	return append([]any{"component", a.component}, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, a.with(args)...) }

func (a *slogAdapter) Info(msg string, args ...any) { Info(msg, a.with(args)...) }

func (a *slogAdapter) Warn(msg string, args ...any) { Warn(msg, a.with(args)...) }

func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, a.with(args)...) }

// Nop returns a port.Logger that discards everything.
func Nop() port.Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
