// Package errors defines typed errors with categories for user-friendly reporting.
// Each error carries a machine-readable kind alongside a human message, so
// commands can decide how to present a failure without string matching.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// SearchFailed indicates the index node rejected or failed a query.
	SearchFailed Kind = "search_failed"
	// NodeUnreachable indicates a network-level failure reaching the index node.
	NodeUnreachable Kind = "node_unreachable"
	// DecodeFailed indicates a malformed search response.
	DecodeFailed Kind = "decode_failed"
	// DownloadFailed indicates a file transfer or checksum failure.
	DownloadFailed Kind = "download_failed"
	// CacheFailed indicates a local response-cache failure.
	CacheFailed Kind = "cache_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
