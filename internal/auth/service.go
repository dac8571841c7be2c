package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/database/users"
	"github.com/openshelf/librarian/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrUserDeactivated   = errors.New("account is deactivated")
	ErrAuthRequired      = errors.New("authentication required")
	ErrUsernameRequired  = errors.New("username is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrUsernameInvalid   = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid      = errors.New("invalid email format")
	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
)

// CreateUserInput carries the fields for account registration.
type CreateUserInput struct {
	Username    string     `json:"username" binding:"required"`
	Email       string     `json:"email" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address"`
}

// Service handles authentication and account management.
type Service struct {
	users  *users.Repository
	config config.Auth

	now func() time.Time
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		users:  users.NewRepository(db),
		config: cfg,
		now:    time.Now,
	}
}

// IsAuthEnabled reports whether local authentication is configured.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// CreateUser registers a new account with a hashed password.
func (s *Service) CreateUser(in CreateUserInput) (*entities.User, error) {
	if in.Username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Email == "" {
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, ErrUsernameInvalid
	}
	// RFC 5321 length limit is 254
	if len(in.Email) > 254 || !emailPattern.MatchString(in.Email) {
		return nil, ErrEmailInvalid
	}

	taken, err := s.users.ExistsByUsernameOrEmail(in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth,
		Address:      in.Address,
		Status:       entities.UserStatusActivated,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user. Deactivated
// accounts are rejected even with a correct password.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a bcrypt comparison so missing users take as long
			// as wrong passwords.
			_ = CheckPassword(password, "$2a$12$000000000000000000000uGyEVk3q1hpNKUSyvBAO8UYjL07O0d2")
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidPassword
	}
	if user.Status != entities.UserStatusActivated {
		return nil, ErrUserDeactivated
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return ErrInvalidPassword
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Save(user)
}

// RequestPasswordReset issues a short-lived 6-digit reset token for the
// account behind the email. The token is returned so the caller can queue
// its delivery; it is never exposed in API responses.
func (s *Service) RequestPasswordReset(email string) (string, *entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}

	token, err := GenerateResetToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := s.now().Add(s.config.ResetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	if err := s.users.Save(user); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResetPassword consumes a reset token and stores the new password. Tokens
// are single use: a successful reset clears the token.
func (s *Service) ResetPassword(token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	user, err := s.users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(s.now()) {
		return ErrResetTokenExpired
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	return s.users.Save(user)
}

// SetUserStatus activates or deactivates an account.
func (s *Service) SetUserStatus(userID uint, status entities.UserStatus) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.Status = status
	return s.users.Save(user)
}

// ResetTokenTTL returns the configured lifetime of reset tokens.
func (s *Service) ResetTokenTTL() time.Duration {
	return s.config.ResetTokenTTL
}

// HasUsers reports whether any account exists yet.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.Count()
	return count > 0, err
}
