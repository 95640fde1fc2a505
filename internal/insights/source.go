package insights

import (
	"context"
	"errors"
	"fmt"
)

// ErrDataUnavailable marks every failure to reach corpus data.
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError wraps the underlying failure of a corpus operation.
type DataUnavailableError struct {
	Op  string
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: data unavailable: %v", e.Op, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// Unavailable wraps err for op, leaving an existing DataUnavailableError alone.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var due *DataUnavailableError
	if errors.As(err, &due) {
		return err
	}
	return &DataUnavailableError{Op: op, Err: err}
}

// Source is the query contract the assistant consumes.
type Source interface {
	LoadInsights(ctx context.Context) (*Snapshot, error)
	SearchEmails(ctx context.Context, query string) ([]EmailRecord, error)
	FetchUserAnalytics(ctx context.Context, id ID) (*UserAnalytics, error)
}
