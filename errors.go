package vaultfile

import "github.com/vaultfile/vaultfile/internal/vaulterr"

// Error is the single error type returned across the public API boundary,
// carrying a machine-readable Kind and an optional wrapped cause (spec §7).
type Error = vaulterr.Error

// Kind enumerates the error taxonomy of spec §7.
type Kind = vaulterr.Kind

const (
	KindCorruptHeader       = vaulterr.KindCorruptHeader
	KindUnknownCipher       = vaulterr.KindUnknownCipher
	KindUnsupportedVersion  = vaulterr.KindUnsupportedVersion
	KindInvalidCompositeKey = vaulterr.KindInvalidCompositeKey
	KindCorruptPayload      = vaulterr.KindCorruptPayload
	KindMalformedBody       = vaulterr.KindMalformedBody
	KindIOFailure           = vaulterr.KindIOFailure
	KindInvalidKey          = vaulterr.KindInvalidKey
	KindCancelled           = vaulterr.KindCancelled
)

// Sentinel values for errors.Is(err, vaultfile.ErrInvalidCompositeKey)-style
// comparisons against a specific Kind.
var (
	ErrCorruptHeader       = vaulterr.ErrCorruptHeader
	ErrUnknownCipher       = vaulterr.ErrUnknownCipher
	ErrUnsupportedVersion  = vaulterr.ErrUnsupportedVersion
	ErrInvalidCompositeKey = vaulterr.ErrInvalidCompositeKey
	ErrCorruptPayload      = vaulterr.ErrCorruptPayload
	ErrMalformedBody       = vaulterr.ErrMalformedBody
	ErrIOFailure           = vaulterr.ErrIOFailure
	ErrInvalidKey          = vaulterr.ErrInvalidKey
	ErrCancelled           = vaulterr.ErrCancelled
)

// NewError constructs a vaultfile.Error of the given Kind.
func NewError(kind Kind, message string) *Error { return vaulterr.New(kind, message) }

// Wrap constructs a vaultfile.Error of the given Kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error { return vaulterr.Wrap(kind, message, cause) }

// Of reports whether err's Kind equals k.
func Of(err error, k Kind) bool { return vaulterr.Of(err, k) }
