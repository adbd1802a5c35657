package supabase

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Brettk80/new2025/internal/metrics"
	"github.com/Brettk80/new2025/internal/notify"
	"go.uber.org/zap"
)

const defaultErrorMessage = "An error occurred"

var (
	// ErrNoData is returned when an operation succeeded but carried no payload.
	ErrNoData = errors.New("no data returned")
	// ErrUnknownColumn is returned when a column does not belong to the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrEmptyMatch is returned for an update or delete without any filter.
	ErrEmptyMatch = errors.New("match must contain at least one column")
)

// Error is the single error kind returned by the data, auth, storage and
// realtime wrappers. Message is the text shown to the user.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PostgREST failures surface as "(code) message".
var codePattern = regexp.MustCompile(`^\(([0-9A-Z]{5}|PGRST[0-9]+)\) `)

// Code is the Postgres or PostgREST error code of the failed call, e.g.
// "23505" for a unique violation. It is empty when the error carries none.
func (e *Error) Code() string {
	if e.Err == nil {
		return ""
	}
	m := codePattern.FindStringSubmatch(e.Err.Error())
	if m == nil {
		return ""
	}
	return m[1]
}

// report logs err, raises a user-facing notification and returns the wrapped
// error. It is the only place failures leave this package.
func (c *Client) report(op string, err error, message string) error {
	if message == "" {
		message = defaultErrorMessage
	}

	c.logger.Error("supabase error",
		zap.String("op", op),
		zap.String("subject", c.subject),
		zap.Error(err),
	)
	c.notifier.Notify(notify.Notification{
		Subject: c.subject,
		Level:   notify.LevelError,
		Message: message,
		Detail:  err.Error(),
	})

	return &Error{Op: op, Message: message, Err: err}
}

// observe records the duration and outcome of one platform call.
func observe(subsystem, op string, started time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNoData):
		outcome = "no_data"
	case err != nil:
		outcome = "error"
	}
	metrics.SupabaseOperations.WithLabelValues(subsystem, op, outcome).Inc()
	metrics.SupabaseDuration.WithLabelValues(subsystem, op).Observe(time.Since(started).Seconds())
}
