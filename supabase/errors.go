package supabase

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrCategoryInUse      = errors.New("category still referenced by tasks")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("invalid or expired token")
)

// PostgREST reports errors as "(code) message".
const codeUndefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), codeUndefinedTable)
}
