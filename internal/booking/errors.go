package booking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room is not available")
)

// DraftError lists every reason a draft cannot be confirmed, keyed by field.
type DraftError struct {
	fields map[string]string
}

func newDraftError() *DraftError {
	return &DraftError{fields: map[string]string{}}
}

func (e *DraftError) add(field, msg string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = msg
	}
}

func (e *DraftError) empty() bool {
	return len(e.fields) == 0
}

func (e *DraftError) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func (e *DraftError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.fields[k]))
	}
	return "invalid booking draft: " + strings.Join(parts, "; ")
}

// AsDraftError returns the DraftError in err's chain, or nil.
func AsDraftError(err error) *DraftError {
	var de *DraftError
	if errors.As(err, &de) {
		return de
	}
	return nil
}
