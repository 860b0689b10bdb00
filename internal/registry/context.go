package registry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/opsgate/internal/common"
)

// requestCounter distinguishes request IDs generated within the same
// millisecond. It only ever increments, so an ID is never reused for the
// lifetime of the process, including retried calls.
var requestCounter atomic.Uint64

// RequestContext is the ephemeral per-invocation context handed to tool
// handlers. It carries a generated request identifier for log correlation,
// a logger bound to that identifier, and whatever gateway dependencies the
// handler is allowed to call. It is discarded when the call returns.
type RequestContext struct {
	ID     string
	Logger *common.Logger
	Deps   any
}

// NewRequestContext creates a fresh RequestContext with a unique request ID
// and a logger correlated to it.
func NewRequestContext(logger *common.Logger, deps any) *RequestContext {
	id := NewRequestID()
	return &RequestContext{
		ID:     id,
		Logger: logger.WithCorrelationId(id),
		Deps:   deps,
	}
}

// NewRequestID generates a request identifier of the form
// req_<unix-millis>_<sequence>. IDs are unique within a process and ordered
// well enough for log correlation; they are never persisted.
func NewRequestID() string {
	return fmt.Sprintf("req_%d_%d", time.Now().UnixMilli(), requestCounter.Add(1))
}
