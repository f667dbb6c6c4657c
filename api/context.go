package api

import (
	"context"
)

type keyType string

const (
	tokenKey keyType = "token"
)

// ctxWithToken adds the caller's bearer token to the context
func ctxWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// ctxGetToken retrieves the bearer token placed by the auth middleware
func ctxGetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
