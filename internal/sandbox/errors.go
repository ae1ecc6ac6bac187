// Package sandbox validates untrusted relative paths against a set of
// allowed base directories. It is the single gate between user-influenced
// template names and real filesystem locations.
package sandbox

import (
	"errors"
	"fmt"

	"github.com/TavnitForms/tavnit-cli/internal/util"
)

// Code is a machine-readable identifier for a security-policy violation.
type Code string

const (
	CodePathTraversal     Code = "PATH_TRAVERSAL"
	CodePathNotAllowed    Code = "PATH_NOT_ALLOWED"
	CodeSymlinkNotAllowed Code = "SYMLINK_NOT_ALLOWED"
)

// Sentinel errors for the three policy violations. Check with errors.Is.
var (
	// ErrPathTraversal indicates a candidate path that resolves outside its
	// claimed base directory.
	ErrPathTraversal = errors.New("path escapes base directory")

	// ErrPathNotAllowed indicates an absolute, drive-qualified, or UNC
	// candidate, or a base directory not present in the allow-list.
	ErrPathNotAllowed = errors.New("path form not allowed")

	// ErrSymlinkNotAllowed indicates a resolved path that is a symbolic link
	// while the policy forbids symlinks.
	ErrSymlinkNotAllowed = errors.New("symbolic links not allowed")
)

// SecurityError is a policy violation raised by the sandbox. The Path field
// is redacted before storage and is safe to show to users and to log.
type SecurityError struct {
	Code Code
	Path string
	Err  error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Err.Error(), e.Path)
}

func (e *SecurityError) Unwrap() error {
	return e.Err
}

func newSecurityError(code Code, path string) *SecurityError {
	var sentinel error
	switch code {
	case CodePathTraversal:
		sentinel = ErrPathTraversal
	case CodeSymlinkNotAllowed:
		sentinel = ErrSymlinkNotAllowed
	default:
		sentinel = ErrPathNotAllowed
	}
	return &SecurityError{
		Code: code,
		Path: util.RedactPath(path),
		Err:  sentinel,
	}
}

// CodeOf extracts the violation code from err, or "" if err is not a
// SecurityError.
func CodeOf(err error) Code {
	var se *SecurityError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
