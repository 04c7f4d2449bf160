// Package auth manages the accounts stored in the Users table: bcrypt
// password hashes, roles, the default administrator and credential checks.
// It keeps no sessions.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"

	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
// The two cases are not told apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service reads and writes user records through the ledger.
type Service struct {
	ledger *ledger.Service
	logger logging.Logger
	cost   int
}

// Option customises a Service.
type Option func(*Service)

// WithCost sets the bcrypt cost of new hashes.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// New creates a Service.
func New(l *ledger.Service, logger logging.Logger, opts ...Option) *Service {
	s := &Service{ledger: l, logger: logger, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ledgererror.Invalid("user", "password", "", "must be at most 72 bytes")
	}
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == models.RoleUser || role == models.RoleAdmin
}

// Users returns every account. Hashes are included; callers exporting the
// list rely on the model's tags to drop them.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return table.Decode[models.User](s.ledger.List(ctx, models.TableUsers))
}

// Lookup finds a user by name, compared in normalised form.
func (s *Service) Lookup(ctx context.Context, username string) (models.User, bool) {
	users, err := s.Users(ctx)
	if err != nil {
		return models.User{}, false
	}
	for _, u := range users {
		if textutils.Equal(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

// CreateUser stores a new account. An empty role means RoleUser.
func (s *Service) CreateUser(ctx context.Context, username, password, role, actor string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ledgererror.Invalid("user", models.FieldUsername, "", "is required")
	}
	if strings.TrimSpace(password) == "" {
		return models.User{}, ledgererror.Invalid("user", "password", "", "is required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !ValidRole(role) {
		return models.User{}, ledgererror.Invalid("user", models.FieldRole, role, "must be user or admin")
	}
	if _, exists := s.Lookup(ctx, username); exists {
		return models.User{}, ledgererror.AlreadyExists("user", username)
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Username: username, PasswordHash: hash, Role: role}
	rec, err := table.EncodeRecord(user)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.ledger.Append(ctx, models.TableUsers, rec, actor); err != nil {
		return models.User{}, err
	}
	s.logger.Info("User created",
		logging.F(logging.FieldUser, username),
		logging.F(models.FieldRole, role))
	return user, nil
}

// SetPassword replaces the hash of an existing account.
func (s *Service) SetPassword(ctx context.Context, username, password, actor string) error {
	if strings.TrimSpace(password) == "" {
		return ledgererror.Invalid("user", "password", "", "is required")
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return err
	}
	return s.ledger.UpdateByKey(ctx, models.TableUsers,
		table.Record{models.FieldUsername: username},
		table.Record{models.FieldPasswordHash: hash}, actor)
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, ok := s.Lookup(ctx, strings.TrimSpace(username))
	if !ok || !CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Warn("Authentication failed", logging.F(logging.FieldUser, username))
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureDefaultAdmin creates an administrator named username when no
// account holds the admin role. A blank password is replaced by a random
// one, which is returned so the caller can show it once. It reports
// whether an account was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, string, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return false, "", err
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			s.logger.Debug("Admin account already present", logging.F(logging.FieldUser, u.Username))
			return false, "", nil
		}
	}

	generated := ""
	if password == "" {
		password = rand.Text()
		generated = password
	}
	if _, err := s.CreateUser(ctx, username, password, models.RoleAdmin, "system"); err != nil {
		return false, "", err
	}
	if generated != "" {
		s.logger.Warn("Default admin created with a generated password; change it",
			logging.F(logging.FieldUser, username))
	}
	return true, generated, nil
}
