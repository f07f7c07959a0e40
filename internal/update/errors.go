package update

import (
	"errors"
	"fmt"
)

/**
 * Failure classification for update pipeline errors
 */
type FailureKind string

const (
	KindNetwork       FailureKind = "network"        // unreachable host, timeout, non-success status
	KindParse         FailureKind = "parse"          // malformed manifest or version descriptor
	KindArchive       FailureKind = "archive"        // corrupt or unreadable package
	KindFilesystem    FailureKind = "filesystem"     // permission denied, disk full, path not writable
	KindConfigPersist FailureKind = "config_persist" // unable to write updated configuration
)

/**
 * Classified pipeline error
 * @property {FailureKind} Kind - Failure class
 * @property {bool} Incomplete - Install merge failed after live files were
 * already overwritten, leaving a mixed old/new installation
 */
type Error struct {
	Kind       FailureKind
	Incomplete bool
	Err        error
}

func (e *Error) Error() string {
	if e.Incomplete {
		return fmt.Sprintf("%s error (installation incomplete): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind FailureKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

/**
 * Get the failure kind of an error
 * @returns {FailureKind} Kind if err carries one, empty string otherwise
 */
func KindOf(err error) FailureKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}

/**
 * Report whether err describes an install that failed after live files
 * were already overwritten. Retrying such an install may be unsafe.
 */
func IsIncomplete(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Incomplete
	}
	return false
}
