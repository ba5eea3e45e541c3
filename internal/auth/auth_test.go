package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tablepay/internal/models"
)

type memStaff struct {
	byEmail map[string]*models.Staff
}

func newMemStaff() *memStaff {
	return &memStaff{byEmail: make(map[string]*models.Staff)}
}

func (m *memStaff) CreateStaff(_ context.Context, staff *models.Staff) error {
	if _, ok := m.byEmail[staff.Email]; ok {
		return errors.New("duplicate email")
	}
	m.byEmail[staff.Email] = staff
	return nil
}

func (m *memStaff) GetStaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	return m.byEmail[email], nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemStaff()).WithCost(bcrypt.MinCost)

	staff, err := a.Register(ctx, " Ana@Example.com ", "Ana", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", staff.Email)
	assert.NotEqual(t, "correct-horse", staff.PasswordHash)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "ana@example.com", "correct-horse", nil},
		{"email is case insensitive", "ANA@example.com", "correct-horse", nil},
		{"wrong password", "ana@example.com", "battery-staple", ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "correct-horse", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, staff.ID, got.ID)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, "ana@example.com", "Ana 2", "another-pass")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "carl@example.com", "Carl", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := a.Register(ctx, "  ", "Nobody", "long-enough")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("display name defaults to email", func(t *testing.T) {
		s, err := a.Register(ctx, "dee@example.com", "", "long-enough")
		require.NoError(t, err)
		assert.Equal(t, "dee@example.com", s.DisplayName)
	})
}

func TestJWTManager(t *testing.T) {
	staff := models.NewStaff("ana@example.com", "Ana", "hash")

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("secret", time.Hour)
		token, err := m.Generate(staff)
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, staff.ID, claims.StaffID)
		assert.Equal(t, staff.Email, claims.Email)
		assert.Equal(t, Issuer, claims.Issuer)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret", time.Hour).Generate(staff)
		require.NoError(t, err)

		_, err = NewJWTManager("other", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("secret", -time.Minute)
		token, err := m.Generate(staff)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &Claims{
			StaffID: staff.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewJWTManager("secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTManager("secret", time.Hour).Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
