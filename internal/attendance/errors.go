package attendance

import (
	"errors"
	"fmt"
)

// Error kinds. Every one of them is recoverable: the offending file is
// skipped and the batch continues.
var (
	ErrHeaderMismatch  = errors.New("unexpected column header")
	ErrHeaderNotFound  = errors.New("header row not found")
	ErrOrganizerParity = errors.New("the meeting organizer should be the first participant listed in the file and should appear an odd number of times")
	ErrNoParticipants  = errors.New("no participants found")
	ErrBadTimestamp    = errors.New("unrecognized timestamp")
	ErrShortRow        = errors.New("row has too few columns")
)

// FileError reports a recoverable failure for one export file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func fileError(path string, err error) error {
	return &FileError{Path: path, Err: err}
}
