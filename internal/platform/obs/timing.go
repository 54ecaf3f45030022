// Package obs provides request-scoped operation timing logs, used to
// attribute upstream provider latency to individual API requests.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the per-request id assigned by the HTTP edge.
const RequestIDKey ctxKey = "req_id"

// Time returns a deferred-call hook logging the operation's duration
// and outcome:
//
//	defer obs.Time(ctx, "gmaps.directions")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
