package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// FailureReason categorizes why a cleanup step failed.
type FailureReason int

const (
	ReasonPermissionDenied FailureReason = iota
	ReasonFileInUse
	ReasonNotFound
	ReasonUnsafePath
	ReasonProtected
	ReasonCommandFailure
	ReasonSafetyLimit
	ReasonUnknown
)

// String returns a human-readable failure reason.
func (r FailureReason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonFileInUse:
		return "file is in use"
	case ReasonNotFound:
		return "not found"
	case ReasonUnsafePath:
		return "path is not safe to delete"
	case ReasonProtected:
		return "protected by user configuration"
	case ReasonCommandFailure:
		return "cleanup command failed"
	case ReasonSafetyLimit:
		return "exceeds safety limit"
	default:
		return "unknown error"
	}
}

// CleanupError is a categorized cleanup failure for one path or command.
type CleanupError struct {
	Path     string
	Reason   FailureReason
	Original error
}

func (e *CleanupError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *CleanupError) Unwrap() error { return e.Original }

// categorize wraps err with a reason inferred from os and syscall state.
func categorize(path string, err error) *CleanupError {
	ce := &CleanupError{Path: path, Original: err, Reason: ReasonUnknown}
	if err == nil {
		return ce
	}
	if os.IsNotExist(err) {
		ce.Reason = ReasonNotFound
		return ce
	}
	if os.IsPermission(err) {
		ce.Reason = ReasonPermissionDenied
		return ce
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			ce.Reason = ReasonPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			ce.Reason = ReasonFileInUse
		case syscall.ENOENT:
			ce.Reason = ReasonNotFound
		}
	}
	return ce
}
