package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Credential is owned by the provider, not by the entity store.
type Credential struct {
	UserID       uint   `gorm:"primaryKey;autoIncrement:false"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	Username     string `gorm:"size:200"`
	Role         string `gorm:"size:20;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Credential) TableName() string {
	return "credentials"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Credential{})
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type cachedCredential struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LocalProvider keeps bcrypt hashes in the credentials table and signs
// HS256 tokens. Credentials are re-read on every verification so deleted
// users and role changes take effect before the token expires.
type LocalProvider struct {
	db       *gorm.DB
	secret   []byte
	ttl      time.Duration
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewLocalProvider(db *gorm.DB, secret string, ttl time.Duration, c cache.Cache, cacheTTL time.Duration) *LocalProvider {
	if c == nil {
		c = cache.NewMemory()
	}
	return &LocalProvider{
		db:       db,
		secret:   []byte(secret),
		ttl:      ttl,
		cache:    c,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func credentialKey(userID uint) string {
	return "identity:credential:" + strconv.FormatUint(uint64(userID), 10)
}

// --------------------------------------------------
// Tokens
// --------------------------------------------------

func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (string, error) {
	var cred Credential
	if err := p.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnauthorized
		}
		return "", httperr.FromStore(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	now := p.now()
	claims := tokenClaims{
		Email: cred.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(cred.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *LocalProvider) VerifyToken(ctx context.Context, raw string) (*Claims, error) {
	var tc tokenClaims
	token, err := jwt.ParseWithClaims(raw, &tc, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	id, err := strconv.ParseUint(tc.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrUnauthorized
	}

	cred, err := p.credential(ctx, uint(id))
	if err != nil {
		return nil, err
	}

	return &Claims{
		UserID:   uint(id),
		Username: cred.Username,
		Email:    cred.Email,
		Roles:    []string{cred.Role},
	}, nil
}

func (p *LocalProvider) credential(ctx context.Context, userID uint) (*cachedCredential, error) {
	var out cachedCredential
	if hit, err := cache.GetJSON(ctx, p.cache, "identity", credentialKey(userID), &out); err == nil && hit {
		return &out, nil
	}

	var cred Credential
	if err := p.db.WithContext(ctx).First(&cred, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, httperr.FromStore(err)
	}

	out = cachedCredential{Username: cred.Username, Email: cred.Email, Role: cred.Role}
	_ = cache.SetJSON(ctx, p.cache, credentialKey(userID), out, p.cacheTTL)
	return &out, nil
}

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (p *LocalProvider) CreateUser(ctx context.Context, in Profile) error {
	if in.Password == "" {
		return httperr.ErrInvalidInput("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	cred := Credential{
		UserID:       in.UserID,
		Email:        normalizeEmail(in.Email),
		Username:     in.Username,
		Role:         in.Role,
		PasswordHash: string(hash),
	}
	if err := p.db.WithContext(ctx).Create(&cred).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return httperr.FromStore(err)
	}
	return nil
}

func (p *LocalProvider) UpdateUser(ctx context.Context, in Profile) error {
	updates := map[string]any{}
	if in.Email != "" {
		updates["email"] = normalizeEmail(in.Email)
	}
	if in.Username != "" {
		updates["username"] = in.Username
	}
	if in.Role != "" {
		updates["role"] = in.Role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}
	if len(updates) == 0 {
		return nil
	}

	res := p.db.WithContext(ctx).
		Model(&Credential{}).
		Where("user_id = ?", in.UserID).
		Updates(updates)
	if res.Error != nil {
		if httperr.IsUniqueViolation(res.Error) {
			return ErrUserExists
		}
		return httperr.FromStore(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	_ = p.cache.Delete(ctx, credentialKey(in.UserID))
	return nil
}

func (p *LocalProvider) DeleteUser(ctx context.Context, userID uint) error {
	res := p.db.WithContext(ctx).Delete(&Credential{}, userID)
	if res.Error != nil {
		return httperr.FromStore(res.Error)
	}
	_ = p.cache.Delete(ctx, credentialKey(userID))
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

var _ Provider = (*LocalProvider)(nil)
