package auth

import (
	"context"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

// Role is the enumerated account role. Permission checks go through the
// capability predicates below, never through raw string comparison.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return Role(s), nil
	}
	return "", errors.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role belongs to library personnel.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

func (r Role) CanManageCatalog() bool {
	return r.IsStaff()
}

func (r Role) CanManageBorrowings() bool {
	return r.IsStaff()
}

func (r Role) CanViewReports() bool {
	return r.IsStaff()
}

// Principal is the authenticated identity attached to every admitted request.
type Principal struct {
	UserID   int
	Username string
	Role     Role
}

type principalKey struct{}

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

type Claims struct {
	Profile struct {
		UserID   int    `json:"userID"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// JWTKey is the HS256 signing secret, taken from the environment so that
// every instance of the service agrees on it.
var JWTKey = []byte(jwtKey())

func jwtKey() string {
	if key := os.Getenv("JWT_KEY"); key != "" {
		return key
	}
	return "lms-dev-secret"
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// NewTokenPair issues an access/refresh pair for the principal. The refresh
// token carries a unique JTI so it can be revoked on logout.
func NewTokenPair(p Principal) (TokenPair, string, error) {
	access, err := signToken(p, AccessTokenTTL, "")
	if err != nil {
		return TokenPair{}, "", errors.Wrap(err, "sign access")
	}
	jti := uuid.NewString()
	refresh, err := signToken(p, RefreshTokenTTL, jti)
	if err != nil {
		return TokenPair{}, "", errors.Wrap(err, "sign refresh")
	}
	return TokenPair{Access: access, Refresh: refresh}, jti, nil
}

func signToken(p Principal, ttl time.Duration, jti string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	claims.Profile.UserID = p.UserID
	claims.Profile.Username = p.Username
	claims.Profile.Role = string(p.Role)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTKey)
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return JWTKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (c *Claims) Principal() (Principal, error) {
	role, err := ParseRole(c.Profile.Role)
	if err != nil {
		return Principal{}, err
	}
	return Principal{
		UserID:   c.Profile.UserID,
		Username: c.Profile.Username,
		Role:     role,
	}, nil
}
