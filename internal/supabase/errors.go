package supabase

import (
	"errors"
	"fmt"
	"strings"
)

// Error carries the PostgREST/GoTrue error envelope. The data-access layer
// branches on three classes: no matching row, missing relation and
// permission denial; everything else is treated as transient.
type Error struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}

const (
	codeNoRows     = "PGRST116"
	codePermission = "PGRST301"
)

// IsNoRows reports whether err means a single-row lookup matched nothing.
func IsNoRows(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == codeNoRows
}

// IsMissingRelation reports whether err means the backing table has not been
// created yet, which triggers lazy schema initialization.
func IsMissingRelation(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code == "42P01" {
		return true
	}
	return strings.Contains(se.Message, "relation") && strings.Contains(se.Message, "does not exist")
}

// IsPermission reports whether err is a row-level-security or grant failure.
func IsPermission(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code == codePermission || se.Code == "42501" {
		return true
	}
	return strings.Contains(strings.ToLower(se.Message), "permission")
}
