package account

import (
	"context"
	"strings"
	"time"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/models"
)

type Service struct {
	repo       Repository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

func NewService(repo Repository, tokens *auth.TokenIssuer, bcryptCost int) *Service {
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// LoginResult is what a successful sign-in hands back to the client.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Session   auth.Session `json:"session"`
}

// Login checks superadmins first, then employees. Unknown logins and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	session, err := s.authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.tokens.Issue(*session)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expires, Session: *session}, nil
}

func (s *Service) authenticate(ctx context.Context, login, password string) (*auth.Session, error) {
	admin, err := s.repo.FindSuperadmin(ctx, login)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		if err := checkPassword(admin.PasswordHash, password); err != nil {
			return nil, err
		}
		return &auth.Session{Login: admin.Login, Role: models.RoleSuperadmin, DisplayName: admin.Login}, nil
	}

	e, err := s.repo.FindEmployee(ctx, login)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := checkPassword(e.PasswordHash, password); err != nil {
		return nil, err
	}

	tenantID, employeeID := e.TenantID, e.ID
	return &auth.Session{
		Login:       e.Login,
		Role:        e.Role,
		DisplayName: e.FullName,
		TenantID:    &tenantID,
		EmployeeID:  &employeeID,
	}, nil
}

// CreateSuperadmin seeds a platform operator, replacing the password when the
// login already exists.
func (s *Service) CreateSuperadmin(ctx context.Context, login, password string) (int64, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return 0, apperr.Invalid("login", "is required")
	}
	if len(password) < 8 {
		return 0, apperr.Invalid("password", "must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, err
	}
	return s.repo.SaveSuperadmin(ctx, login, hash)
}

func checkPassword(hash, password string) error {
	ok, err := auth.CheckPassword(hash, password)
	if err != nil || !ok {
		return apperr.ErrInvalidCredentials
	}
	return nil
}
