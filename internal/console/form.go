// internal/console/form.go
package console

import (
	"context"
	"strings"
	"sync"

	"assessment-recommender/internal/client"
	"assessment-recommender/internal/common/logger"
)

// FetchErrorMessage is the only failure text shown to the user. Transport
// and schema details go to the log.
const FetchErrorMessage = "Failed to fetch recommendations. Please try again."

// Fetcher is the slice of the API client the form needs.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*client.Result, error)
}

// QueryForm owns the submit cycle: trimmed-empty input is a no-op, only one
// request runs at a time, and each request carries a sequence number so a
// late response for a superseded request can never overwrite newer state.
type QueryForm struct {
	fetcher Fetcher
	logger  logger.Logger

	mu      sync.Mutex
	busy    bool
	seq     uint64
	result  *client.Result
	errText string
}

func NewQueryForm(fetcher Fetcher, log logger.Logger) *QueryForm {
	return &QueryForm{fetcher: fetcher, logger: log}
}

// Submit runs one full query cycle and reports whether a request was
// actually issued. Empty input and an in-flight request both return false
// without touching any state.
func (f *QueryForm) Submit(ctx context.Context, raw string) bool {
	query := strings.TrimSpace(raw)
	if query == "" {
		return false
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return false
	}
	f.busy = true
	f.errText = ""
	f.result = nil
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	result, err := f.fetcher.Fetch(ctx, query)
	f.complete(seq, result, err)
	return true
}

// complete applies a response, unless a newer request has been issued since
// seq was assigned.
func (f *QueryForm) complete(seq uint64, result *client.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		f.logger.Debug("discarding stale response", map[string]interface{}{
			"got_seq":    seq,
			"latest_seq": f.seq,
		})
		return
	}
	f.busy = false

	if err != nil {
		f.logger.Error("recommendation fetch failed", map[string]interface{}{"error": err.Error()})
		f.errText = FetchErrorMessage
		return
	}
	f.result = result
}

// Busy reports whether a request is in flight.
func (f *QueryForm) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Err returns the current user-facing error text, empty when none.
func (f *QueryForm) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errText
}

// Result returns the last successful response, nil when none.
func (f *QueryForm) Result() *client.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}
