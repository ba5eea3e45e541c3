package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tablepay/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// StaffIDKey is the context key for the authenticated staff ID.
	StaffIDKey contextKey = "staff_id"
	// EmailKey is the context key for the authenticated staff email.
	EmailKey contextKey = "email"
)

// GetStaffID extracts the staff ID from the context.
// Returns empty string if not found.
func GetStaffID(ctx context.Context) string {
	staffID, _ := ctx.Value(StaffIDKey).(string)
	return staffID
}

// GetEmail extracts the staff email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithStaff returns ctx carrying the given staff identity.
func WithStaff(ctx context.Context, staffID, email string) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, staffID)
	return context.WithValue(ctx, EmailKey, email)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth rejects calls without a valid bearer token and stores the
// staff identity from its claims in the context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			token, ok := bearerToken(header)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithStaff(ctx, claims.StaffID, claims.Email), req)
		}
	}
}
