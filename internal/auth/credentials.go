package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stationeryhq/stationery-server/internal/domain"
	"github.com/stationeryhq/stationery-server/pkg/common"
)

var (
	ErrDuplicateEmail     = errors.New("admin with this email already exists")
	ErrBadEmail           = errors.New("a valid email address is required")
	ErrShortPassword      = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Credentials persists admin identities. Registration always runs the
// password through bcrypt before it touches the database, so the stored
// value is structurally guaranteed to be a hash.
type Credentials struct {
	db *gorm.DB
}

func NewCredentials(db *gorm.DB) *Credentials {
	return &Credentials{db: db}
}

// Register creates a new admin identity. Email matching is case-insensitive:
// addresses are lowercased before storage and lookup.
func (s *Credentials) Register(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrBadEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrShortPassword
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.AdminUser{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "query admin by email")
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	admin := &domain.AdminUser{
		ID:       common.UUIDint64(),
		Email:    email,
		Password: string(hash),
		Role:     domain.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		// The unique index backstops the pre-check when two registrations race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "create admin")
	}
	return admin, nil
}

// Verify looks up an admin by email and checks the candidate password
// against the stored hash. It never compares stored values by equality.
func (s *Credentials) Verify(ctx context.Context, email, candidate string) (*domain.AdminUser, bool) {
	email = strings.ToLower(strings.TrimSpace(email))

	var admin domain.AdminUser
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(candidate)) != nil {
		return nil, false
	}
	return &admin, true
}
