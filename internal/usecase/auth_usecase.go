package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, email string, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// パスワードのハッシュ化と照合の約束
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

type Clock interface {
	Now() time.Time
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type AuthUsecase struct {
	userRepo   repo.UserRepository
	hasher     PasswordHasher
	issuer     AccessTokenIssuer
	clock      Clock
	refreshTTL time.Duration
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
	refreshTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		hasher:     hasher,
		issuer:     issuer,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

type UserResponse struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

func (u *AuthUsecase) Register(ctx context.Context, name, email, password string) (UserResponse, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return UserResponse{}, NewValidation("name required")
	}
	if email == "" {
		return UserResponse{}, NewValidation("email required")
	}
	if len(password) < 8 {
		return UserResponse{}, NewValidation("password must be at least 8 characters")
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return UserResponse{}, err
	}

	created, err := u.userRepo.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err == repo.ErrDuplicate {
		return UserResponse{}, NewConflict("user already exists")
	}
	if err != nil {
		return UserResponse{}, err
	}

	return UserResponse{ID: created.ID, Name: created.Name, Email: created.Email, Role: created.Role}, nil
}

type LoginOutput struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

// メールまたはパスワードが違っても同じ401を返す
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (LoginOutput, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == repo.ErrUserNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, err
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !user.HasVerifiedEmail {
		return LoginOutput{}, NewValidation("email not verified")
	}

	return u.issueTokenPair(ctx, user, true)
}

// refresh tokenはsha256で照合してローテーションする
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (LoginOutput, error) {
	if refreshToken == "" {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	hash := sha256.Sum256([]byte(refreshToken))
	user, err := u.userRepo.FindByRefreshTokenHash(ctx, hex.EncodeToString(hash[:]))
	if err == repo.ErrUserNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err != nil {
		return LoginOutput{}, err
	}

	now := u.clock.Now()
	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(now) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "refresh token expired")
	}

	return u.issueTokenPair(ctx, user, false)
}

func (u *AuthUsecase) Logout(ctx context.Context, userID string) error {
	err := u.userRepo.ClearRefreshToken(ctx, userID)
	if err == repo.ErrUserNotFound {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return err
}

func (u *AuthUsecase) issueTokenPair(ctx context.Context, user model.User, recordLogin bool) (LoginOutput, error) {
	now := u.clock.Now()

	accessToken, expiresAt, err := u.issuer.Issue(user.ID, user.Email, user.Role, now)
	if err != nil {
		return LoginOutput{}, err
	}

	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return LoginOutput{}, err
	}
	refreshHash := sha256.Sum256([]byte(plainRefresh))

	if err := u.userRepo.UpdateRefreshToken(ctx, user.ID, hex.EncodeToString(refreshHash[:]), now.Add(u.refreshTTL)); err != nil {
		return LoginOutput{}, err
	}

	if recordLogin {
		user.LastLoginAt = &now
		if err := u.userRepo.Update(ctx, user); err != nil {
			return LoginOutput{}, err
		}
	}

	return LoginOutput{
		User:         UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		AccessToken:  accessToken,
		RefreshToken: plainRefresh,
		ExpiresIn:    int(expiresAt.Sub(now).Seconds()),
	}, nil
}

// OSの安全な乱数でトークンを作る
func generateSecureToken(bytesLen int) (string, error) {
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
