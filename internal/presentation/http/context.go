package http

import (
	"context"

	"sdaadmin/app/internal/domain/accounts"
)

type contextKey string

const requestStateContextKey contextKey = "sda-admin/request-state"

// requestState is attached once per request and filled in by later middlewares.
type requestState struct {
	requestID string
	user      *accounts.User
}

func withRequestState(ctx context.Context, state *requestState) context.Context {
	return context.WithValue(ctx, requestStateContextKey, state)
}

func stateFromContext(ctx context.Context) *requestState {
	if ctx == nil {
		return nil
	}
	state, _ := ctx.Value(requestStateContextKey).(*requestState)
	return state
}

// RequestIDFromContext extracts the request identifier from the context when available.
func RequestIDFromContext(ctx context.Context) string {
	if state := stateFromContext(ctx); state != nil {
		return state.requestID
	}
	return ""
}

// UserFromContext returns the authenticated admin user, or nil.
func UserFromContext(ctx context.Context) *accounts.User {
	if state := stateFromContext(ctx); state != nil {
		return state.user
	}
	return nil
}
