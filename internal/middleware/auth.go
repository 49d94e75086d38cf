package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/auth"
)

// Bearer returns a huma middleware that attaches the authenticated
// principal to the request context. A valid token is attached on every
// request so optional-auth operations can see the caller; operations
// flagged with auth.MetadataKey reject requests without one.
func Bearer(api huma.API, secret string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		authenticated := false

		if token, ok := bearerToken(ctx.Header("Authorization")); ok {
			if claims, err := auth.ParseToken(token, secret); err == nil {
				principal := auth.Principal{
					AccountID: claims.Subject,
					Tier:      account.Tier(claims.Tier),
				}
				ctx = huma.WithContext(ctx, auth.ContextWithPrincipal(ctx.Context(), principal))
				authenticated = true
			}
		}

		if requiresAuth(ctx) && !authenticated {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid bearer token")

			return
		}

		next(ctx)
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}

func requiresAuth(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil {
		return false
	}

	required, _ := op.Metadata[auth.MetadataKey].(bool)

	return required
}
