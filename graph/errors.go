package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jacentio/pawtrail/model"
	"github.com/jacentio/pawtrail/refsync"
)

// ErrInvalidSelection is returned for selections the schema cannot satisfy.
var ErrInvalidSelection = errors.New("pawtrail: invalid selection")

// KindInvalidSelection is the error kind reported for ErrInvalidSelection.
const KindInvalidSelection = "INVALID_SELECTION"

// FieldError is a failure resolving one field. Sibling fields are unaffected.
type FieldError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`

	err error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.err }

// Kind returns the error kind carried in the extensions.
func (e *FieldError) Kind() string {
	k, _ := e.Extensions["kind"].(string)
	return k
}

func newFieldError(path []any, err error) *FieldError {
	kind := model.KindOf(err)
	if errors.Is(err, ErrInvalidSelection) {
		kind = KindInvalidSelection
	}
	fe := &FieldError{
		Message:    err.Error(),
		Path:       path,
		Extensions: map[string]any{"kind": kind},
		err:        err,
	}
	var pw *refsync.PartialWriteError
	if errors.As(err, &pw) {
		fe.Extensions["animalId"] = pw.Animal.ID
		fe.Extensions["walkerId"] = pw.WalkerID.String()
	}
	return fe
}

func invalidSelection(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSelection, fmt.Sprintf(format, args...))
}

// errorList collects field errors from concurrent resolvers.
type errorList struct {
	mu   sync.Mutex
	errs []*FieldError
}

func (l *errorList) add(path []any, err error) {
	fe := newFieldError(path, err)
	l.mu.Lock()
	l.errs = append(l.errs, fe)
	l.mu.Unlock()
}

// sorted returns the errors ordered by path for stable output.
func (l *errorList) sorted() []*FieldError {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]*FieldError(nil), l.errs...)
	sort.SliceStable(out, func(i, j int) bool {
		return pathString(out[i].Path) < pathString(out[j].Path)
	})
	return out
}

func pathString(path []any) string {
	parts := make([]string, len(path))
	for i, p := range path {
		if n, ok := p.(int); ok {
			parts[i] = fmt.Sprintf("%08d", n)
			continue
		}
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}
