package service

import (
	"crypto/subtle"

	"github.com/forumdash/amo-analytics-api/internal/auth"
	"github.com/forumdash/amo-analytics-api/internal/domain"
	"go.uber.org/zap"
)

// Credentials is the single dashboard account
type Credentials struct {
	Username    string
	Password    string
	DisplayName string
}

// AuthService checks the dashboard login
type AuthService struct {
	creds  Credentials
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

func NewAuthService(creds Credentials, tokens *auth.TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		creds:  creds,
		tokens: tokens,
		logger: logger,
	}
}

// Login compares the credentials and, when a JWT secret is configured, issues a
// token for the session
func (s *AuthService) Login(username, password string) (*domain.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if s.creds.Username == "" || !userOK || !passOK {
		s.logger.Warn("dashboard login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	resp := &domain.LoginResponse{
		Success: true,
		Message: "Welcome",
		User:    domain.LoginUser{Name: s.creds.DisplayName},
	}

	if s.tokens != nil && s.tokens.Enabled() {
		token, err := s.tokens.Issue(&auth.UserContext{
			Username:    s.creds.Username,
			DisplayName: s.creds.DisplayName,
		})
		if err != nil {
			return nil, err
		}
		resp.Token = token
	}

	s.logger.Info("dashboard login", zap.String("username", username))
	return resp, nil
}
