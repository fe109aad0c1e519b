package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService реализует gateway.Auth: идентичности с bcrypt-хэшами паролей
// и сессии в виде подписанных JWT. В таблице sessions хранится только
// SHA-256 хэш токена, по нему же сессию можно отозвать.
type AuthService struct {
	pool   *pgxpool.Pool
	cfg    AuthConfig
	logger *zap.Logger
}

func NewAuthService(pool *pgxpool.Pool, cfg AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{pool: pool, cfg: cfg, logger: logger}
}

// SignIn проверяет пару email/пароль и выпускает новую сессию.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		id   uuid.UUID
		hash string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, password_hash FROM auth_identities WHERE email = $1`,
		email,
	).Scan(&id, &hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, gateway.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get identity by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, gateway.ErrInvalidCredentials
	}

	return s.issueSession(ctx, id, email)
}

// SignUp создаёт идентичность и сразу выпускает сессию.
func (s *AuthService) SignUp(ctx context.Context, email, password string, meta model.IdentityMetadata) (*model.Identity, *model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &model.Identity{
		ID:       uuid.New(),
		Email:    email,
		Metadata: meta,
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO auth_identities (id, email, password_hash, meta_name, meta_role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		identity.ID, email, string(hash), meta.Name, string(meta.Role),
	).Scan(&identity.CreatedAt)
	if err != nil {
		if cerr := translateError(err); cerr != err {
			return nil, nil, gateway.ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create identity: %w", err)
	}

	sess, err := s.issueSession(ctx, identity.ID, email)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Identity registered",
		zap.String("identity_id", identity.ID.String()),
	)
	return identity, sess, nil
}

// SignOut отзывает сессию. Неизвестный токен - не ошибка.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`,
		hashToken(token),
	)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// GetSession возвращает nil, nil для пустого, невалидного, просроченного
// или отозванного токена.
func (s *AuthService) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	identityID, exp, err := s.parseToken(token)
	if err != nil {
		return nil, nil
	}

	var (
		email     string
		revokedAt *time.Time
	)
	err = s.pool.QueryRow(ctx,
		`SELECT i.email, s.revoked_at
		 FROM sessions s
		 JOIN auth_identities i ON i.id = s.identity_id
		 WHERE s.token_hash = $1 AND s.expires_at > now()`,
		hashToken(token),
	).Scan(&email, &revokedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if revokedAt != nil {
		return nil, nil
	}

	return &model.Session{
		Token:      token,
		IdentityID: identityID,
		Email:      email,
		ExpiresAt:  exp,
	}, nil
}

// GetIdentity возвращает идентичность владельца токена.
func (s *AuthService) GetIdentity(ctx context.Context, token string) (*model.Identity, error) {
	sess, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, gateway.ErrNoSession
	}

	var identity model.Identity
	var metaRole string
	err = s.pool.QueryRow(ctx,
		`SELECT id, email, meta_name, meta_role, created_at
		 FROM auth_identities WHERE id = $1`,
		sess.IdentityID,
	).Scan(&identity.ID, &identity.Email, &identity.Metadata.Name, &metaRole, &identity.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, gateway.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	identity.Metadata.Role = model.Role(metaRole)

	return &identity, nil
}

// issueSession подписывает JWT и сохраняет хэш токена для отзыва.
func (s *AuthService) issueSession(ctx context.Context, identityID uuid.UUID, email string) (*model.Session, error) {
	exp := time.Now().UTC().Add(s.cfg.SessionTTL)

	claims := jwt.MapClaims{
		"sub":   identityID.String(),
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, identity_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`,
		uuid.New(), identityID, hashToken(token), exp,
	)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &model.Session{
		Token:      token,
		IdentityID: identityID,
		Email:      email,
		ExpiresAt:  exp,
	}, nil
}

// parseToken проверяет подпись и срок и достаёт id идентичности.
func (s *AuthService) parseToken(token string) (uuid.UUID, time.Time, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, time.Time{}, gateway.ErrNoSession
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, time.Time{}, gateway.ErrNoSession
	}
	sub, _ := claims["sub"].(string)
	identityID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, time.Time{}, gateway.ErrNoSession
	}

	var exp time.Time
	if unix, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(unix), 0).UTC()
	}

	return identityID, exp, nil
}

// hashToken - в базе хранится только SHA-256 хэш токена.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
