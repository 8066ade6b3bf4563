package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProfile marks a taxpayer profile that failed validation.
	ErrInvalidProfile = errors.New("invalid taxpayer profile")
	// ErrUnknownCommune marks a commune with no row in the multiplier table.
	ErrUnknownCommune = errors.New("unknown commune")
	// ErrUnknownDeductionKey marks a deduction lookup with no matching limit row.
	ErrUnknownDeductionKey = errors.New("unknown deduction key")
	// ErrEmptyBracketTable marks a federal tax class with no bracket rows.
	ErrEmptyBracketTable = errors.New("empty bracket table")
)

// ProfileError describes the first invalid field of a profile.
type ProfileError struct {
	Field  string
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("invalid taxpayer profile: %s %s", e.Field, e.Reason)
}

func (e *ProfileError) Unwrap() error { return ErrInvalidProfile }

// UnknownCommuneError is returned when a commune is not in the multiplier table.
// Lookups are exact and case-sensitive.
type UnknownCommuneError struct {
	Commune string
}

func (e *UnknownCommuneError) Error() string {
	return fmt.Sprintf("unknown commune %q: no multiplier row", e.Commune)
}

func (e *UnknownCommuneError) Unwrap() error { return ErrUnknownCommune }

// UnknownDeductionKeyError is returned when a deduction table has no row for a key.
type UnknownDeductionKeyError struct {
	Jurisdiction Jurisdiction
	Key          DeductionKey
}

func (e *UnknownDeductionKeyError) Error() string {
	return fmt.Sprintf("unknown deduction key %q in %s deduction table", e.Key, e.Jurisdiction)
}

func (e *UnknownDeductionKeyError) Unwrap() error { return ErrUnknownDeductionKey }

// EmptyBracketTableError is returned when no federal bracket rows match a tax class.
type EmptyBracketTableError struct {
	Class TaxClass
}

func (e *EmptyBracketTableError) Error() string {
	return fmt.Sprintf("no federal income tax brackets for class %q", e.Class)
}

func (e *EmptyBracketTableError) Unwrap() error { return ErrEmptyBracketTable }
