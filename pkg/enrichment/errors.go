package enrichment

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an enrichment client could not produce its field.
type FailureKind string

const (
	KindTimeout           FailureKind = "timeout"
	KindUpstreamRejected  FailureKind = "upstream_rejected"
	KindUnparseable       FailureKind = "unparseable_response"
	KindMissingCredential FailureKind = "missing_credential"
)

// ClientError is the only error type enrichment clients return. The
// orchestrator absorbs every kind into an absent field; none are fatal.
type ClientError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func newClientError(provider string, kind FailureKind, err error) *ClientError {
	return &ClientError{Provider: provider, Kind: kind, Err: err}
}

// FailureKindOf extracts the classified kind, or "unknown" for errors that
// did not come from an enrichment client.
func FailureKindOf(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return string(ce.Kind)
	}
	return "unknown"
}
