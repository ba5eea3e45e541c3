package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tablepay/internal/auth"
	"github.com/mmynk/tablepay/internal/models"
)

type ping struct{}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	staff := models.NewStaff("ana@example.com", "Ana", "hash")
	token, err := jwtManager.Generate(staff)
	require.NoError(t, err)

	var gotStaffID, gotEmail string
	handler := RequireAuth(jwtManager)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		gotStaffID = GetStaffID(ctx)
		gotEmail = GetEmail(ctx)
		return connect.NewResponse(&ping{}), nil
	})

	tests := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid token", "Bearer " + token, true},
		{"lowercase scheme", "bearer " + token, true},
		{"missing header", "", false},
		{"wrong scheme", "Basic " + token, false},
		{"bad token", "Bearer nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStaffID, gotEmail = "", ""
			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if !tt.wantOK {
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
				assert.Empty(t, gotStaffID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, staff.ID, gotStaffID)
			assert.Equal(t, "ana@example.com", gotEmail)
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fail := func(code connect.Code) connect.UnaryFunc {
		return func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
			return nil, connect.NewError(code, errors.New("boom"))
		}
	}

	ctx := WithStaff(context.Background(), "staff-1", "ana@example.com")

	buf.Reset()
	_, err := LoggingInterceptor(logger)(fail(connect.CodeInvalidArgument))(ctx, connect.NewRequest(&ping{}))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "staff_id=staff-1")
	assert.Contains(t, buf.String(), "staff_email=ana@example.com")

	buf.Reset()
	_, err = LoggingInterceptor(logger)(fail(connect.CodeInternal))(ctx, connect.NewRequest(&ping{}))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
}
