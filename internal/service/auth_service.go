package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tablepay/internal/auth"
	"github.com/mmynk/tablepay/internal/middleware"
	"github.com/mmynk/tablepay/internal/models"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeRequest struct{}

type StaffView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type AuthResponse struct {
	Staff StaffView `json:"staff"`
	Token string    `json:"token,omitempty"`
}

// StaffLookup resolves the staff member behind a token.
type StaffLookup interface {
	GetStaffByID(ctx context.Context, id string) (*models.Staff, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	staff         StaffLookup
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, staff StaffLookup, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		staff:         staff,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

func staffView(staff *models.Staff) StaffView {
	return StaffView{
		ID:          staff.ID,
		Email:       staff.Email,
		DisplayName: staff.DisplayName,
		CreatedAt:   staff.CreatedAt,
	}
}

// Register creates a staff account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	staff, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(staff)
	if err != nil {
		s.logger.Error("Failed to generate token", "staff_id", staff.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Staff registered", "staff_id", staff.ID, "email", staff.Email)
	return connect.NewResponse(&AuthResponse{Staff: staffView(staff), Token: token}), nil
}

// Login authenticates a staff member and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	staff, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "email", req.Msg.Email)
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		s.logger.Error("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(staff)
	if err != nil {
		s.logger.Error("Failed to generate token", "staff_id", staff.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Staff logged in", "staff_id", staff.ID)
	return connect.NewResponse(&AuthResponse{Staff: staffView(staff), Token: token}), nil
}

// Me returns the staff member behind the request's token.
func (s *AuthService) Me(ctx context.Context, req *connect.Request[MeRequest]) (*connect.Response[AuthResponse], error) {
	staffID := middleware.GetStaffID(ctx)
	if staffID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	staff, err := s.staff.GetStaffByID(ctx, staffID)
	if err != nil {
		s.logger.Error("Failed to get staff", "staff_id", staffID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if staff == nil {
		// Account removed after the token was issued.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	return connect.NewResponse(&AuthResponse{Staff: staffView(staff)}), nil
}
