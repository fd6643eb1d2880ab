package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printgate/printgate/internal/dto"
	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/pkg/config"
	appErrors "github.com/printgate/printgate/pkg/errors"
)

// SessionService issues and validates anonymous owner sessions. An owner key
// is minted on first contact and carried in a signed token; there are no
// accounts or passwords, identity exists only to scope job listings and
// purges.
type SessionService struct {
	cfg    config.SessionConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService constructs the service.
func NewSessionService(cfg config.SessionConfig, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue mints a fresh owner key and returns its signed session token.
func (s *SessionService) Issue() (*dto.SessionResponse, error) {
	ownerKey := uuid.NewString()
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.Expiration)

	claims := &models.SessionClaims{
		OwnerKey: ownerKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerKey,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign session token")
	}

	return &dto.SessionResponse{
		Token:     signed,
		OwnerKey:  ownerKey,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses a session token and returns its claims.
func (s *SessionService) Validate(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}
	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.OwnerKey == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return claims, nil
}
