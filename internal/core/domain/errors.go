package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBalance is returned when a sweep decision is requested without a
	// balance.
	ErrNilBalance = errors.New("balance must not be nil")
	// ErrNilFeePrice is returned when a fee estimate carries no unit price.
	ErrNilFeePrice = errors.New("fee estimate unit price must not be nil")
	// ErrBalanceOverflow is returned when the node reports a balance that does
	// not fit 256 bits.
	ErrBalanceOverflow = errors.New("balance overflows 256 bits")
	// ErrNothingToSweep is returned when asked to broadcast a transfer with a
	// zero amount.
	ErrNothingToSweep = errors.New("transfer amount must be greater than zero")
)

// ErrKind classifies the errors a probe cycle can run into.
type ErrKind int

const (
	// KindUnknown is any error not produced by a ledger operation.
	KindUnknown ErrKind = iota
	// KindConnection means the node is unreachable or the handshake failed.
	KindConnection
	// KindQuery means a balance or fee lookup failed.
	KindQuery
	// KindSigning means the transaction could not be signed.
	KindSigning
	// KindBroadcast means the node rejected the signed transaction.
	KindBroadcast
)

var errKindToString = map[ErrKind]string{
	KindUnknown:    "unknown",
	KindConnection: "connection",
	KindQuery:      "query",
	KindSigning:    "signing",
	KindBroadcast:  "broadcast",
}

func (k ErrKind) String() string {
	if s, ok := errKindToString[k]; ok {
		return s
	}
	return errKindToString[KindUnknown]
}

// LedgerError wraps the cause of a failed ledger operation together with its
// kind.
type LedgerError struct {
	Kind ErrKind
	Op   string
	Err  error
}

func (e *LedgerError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %s", e.Kind, e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewConnectionError returns a LedgerError of kind KindConnection.
func NewConnectionError(op string, err error) error {
	return &LedgerError{KindConnection, op, err}
}

// NewQueryError returns a LedgerError of kind KindQuery.
func NewQueryError(op string, err error) error {
	return &LedgerError{KindQuery, op, err}
}

// NewSigningError returns a LedgerError of kind KindSigning.
func NewSigningError(op string, err error) error {
	return &LedgerError{KindSigning, op, err}
}

// NewBroadcastError returns a LedgerError of kind KindBroadcast.
func NewBroadcastError(op string, err error) error {
	return &LedgerError{KindBroadcast, op, err}
}

// KindOf returns the kind of the given error, KindUnknown if it's not a
// LedgerError.
func KindOf(err error) ErrKind {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind
	}
	return KindUnknown
}
