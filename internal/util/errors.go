package util

import (
	"errors"
	"fmt"
)

// 三类可恢复错误，HTTP 层按类别映射状态码
var (
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrNotFound  = errors.New("not found")
)

var (
	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrContentNotFound    = fmt.Errorf("chapter not found: %w", ErrNotFound)
	ErrAttemptNotFound    = fmt.Errorf("attempt not found: %w", ErrNotFound)
	ErrEmailRegistered    = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrAttemptExists      = fmt.Errorf("attempt already exists: %w", ErrConflict)
	ErrAttemptFinalized   = fmt.Errorf("attempt already submitted: %w", ErrConflict)
	ErrChapterLocked      = fmt.Errorf("chapter locked: %w", ErrForbidden)
	ErrNotAuthenticated   = fmt.Errorf("not authenticated: %w", ErrForbidden)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)
