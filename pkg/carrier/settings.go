package carrier

// Settings is the read-only per-carrier connection contract every mapper and
// proxy consumes. Implementations add their own credential fields; the core
// never mutates a Settings value.
type Settings interface {
	// CarrierID returns the caller-assigned connection identifier.
	CarrierID() string

	// CarrierName returns the carrier's canonical name (e.g. "fedex").
	CarrierName() string

	// TestMode reports whether requests target the carrier's sandbox.
	TestMode() bool

	// ServerURL returns the base URL requests are sent to, already resolved
	// for test vs. live mode.
	ServerURL() string
}

// CoreSettings carries the fields common to every carrier connection.
// Carrier packages embed it and implement ServerURL themselves.
type CoreSettings struct {
	ID   string
	Test bool
}

func (s CoreSettings) CarrierID() string { return s.ID }
func (s CoreSettings) TestMode() bool    { return s.Test }
