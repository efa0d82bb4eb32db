package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/folio/internal/transport"
)

type contextKey int

const callerKey contextKey = iota

const localCaller = "local"

// getCaller extracts the caller identity from context.
func getCaller(ctx context.Context) string {
	v, _ := ctx.Value(callerKey).(string)
	return v
}

// callerMiddleware resolves who issued a request. HTTP requests are already
// authenticated by the router, so an unresolvable token only leaves the
// caller unnamed.
func callerMiddleware(resolver transport.TokenResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			caller := localCaller
			if extra := safeExtra(req); extra != nil && extra.Header != nil {
				caller = ""
				if token := transport.BearerToken(extra.Header.Get("Authorization")); token != "" && resolver != nil {
					if owner, err := resolver.ResolveOwner(ctx, token); err == nil {
						caller = owner
					}
				}
			}
			ctx = context.WithValue(ctx, callerKey, caller)
			return next(ctx, method, req)
		}
	}
}

func safeExtra(req sdkmcp.Request) (extra *sdkmcp.RequestExtra) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			extra = nil
		}
	}()
	return req.GetExtra()
}
