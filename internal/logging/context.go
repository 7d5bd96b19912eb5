package logging

import "context"

type ctxKey struct{}

// CtxKey is the request-context key under which a LogData is stored. It is
// exported so adapter middleware outside this package can attach one.
var CtxKey = ctxKey{}

// WithLogData returns a context carrying the given LogData.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, CtxKey, logData)
}

// GetLogData returns the request's LogData, or nil when the request was not
// routed through a wrapper that attached one.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(CtxKey).(*LogData)
	return logData
}
