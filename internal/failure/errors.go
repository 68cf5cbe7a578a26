package failure

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors. Every per-item error wraps exactly one of these.
var (
	// ErrNotFound indicates a manifest or payload path does not exist
	ErrNotFound = errors.New("file not found")

	// ErrInvalidMagic indicates the payload header tag is not "pnts"
	ErrInvalidMagic = errors.New("invalid payload magic")

	// ErrUnknownPointEncoding indicates the RGB byte offset matches no known position layout
	ErrUnknownPointEncoding = errors.New("unknown point encoding")

	// ErrUnsupportedEncoding indicates a recognized position layout that is not decoded
	ErrUnsupportedEncoding = errors.New("unsupported point encoding")

	// ErrMalformedJSON indicates a manifest or feature table that is not valid JSON
	ErrMalformedJSON = errors.New("malformed json")

	// ErrOutOfBounds indicates a read past the end of a payload buffer
	ErrOutOfBounds = errors.New("read out of bounds")

	// ErrInvalidRoot indicates the input path is neither a file nor a directory.
	// It is the only error that fails a whole load.
	ErrInvalidRoot = errors.New("input is neither a file nor a directory")
)

type Class string

const (
	ClassNone                 Class = ""
	ClassIoNotFound           Class = "IoNotFound"
	ClassInvalidMagic         Class = "InvalidMagic"
	ClassUnknownPointEncoding Class = "UnknownPointEncoding"
	ClassUnsupportedEncoding  Class = "UnsupportedEncoding"
	ClassMalformedJSON        Class = "MalformedJson"
	ClassOutOfBounds          Class = "OutOfBounds"
	ClassCanceled             Class = "Canceled"
	ClassOther                Class = "Other"
)

var classes = []struct {
	err   error
	class Class
}{
	{ErrNotFound, ClassIoNotFound},
	{ErrInvalidMagic, ClassInvalidMagic},
	{ErrUnknownPointEncoding, ClassUnknownPointEncoding},
	{ErrUnsupportedEncoding, ClassUnsupportedEncoding},
	{ErrMalformedJSON, ClassMalformedJSON},
	{ErrOutOfBounds, ClassOutOfBounds},
}

// Classify maps an error onto the taxonomy used in logs, metrics and results
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.class
		}
	}
	if isContextError(err) {
		return ClassCanceled
	}
	return ClassOther
}

// ItemError records the failure of a single work item
type ItemError struct {
	Path string
	Kind string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func (e *ItemError) Class() Class {
	return Classify(e.Err)
}

// NewItemError creates a new ItemError
func NewItemError(path, kind string, err error) *ItemError {
	return &ItemError{
		Path: path,
		Kind: kind,
		Err:  err,
	}
}

// Log collects item errors from concurrent workers
type Log struct {
	mu     sync.Mutex
	errors []*ItemError
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Record(err *ItemError) {
	if err == nil {
		return
	}
	l.mu.Lock()
	l.errors = append(l.errors, err)
	l.mu.Unlock()
}

// Errors returns a copy of the recorded errors in recording order
func (l *Log) Errors() []*ItemError {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*ItemError, len(l.errors))
	copy(out, l.errors)
	return out
}

func (l *Log) Count(class Class) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.errors {
		if e.Class() == class {
			n++
		}
	}
	return n
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}
