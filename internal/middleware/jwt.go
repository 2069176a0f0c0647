package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by JWTAuth.
const (
	KeyUserID   = "user_id"
	KeyUserName = "user_name"
	KeyRole     = "user_role"
)

// renewWindow is how close to expiry a token gets replaced through X-New-Token.
const renewWindow = 24 * time.Hour

// UserSource resolves token holders to their current account.
type UserSource interface {
	User(id string) (model.User, bool)
	LoadedAt() time.Time
}

type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// Issue signs a session token for u.
func (a *Auth) Issue(u model.User) (string, error) {
	return a.sign(u.ID, u.Name, string(u.Role))
}

func (a *Auth) sign(uid, name, role string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"role": role,
		"exp":  time.Now().Add(a.ttl).Unix(),
	}).SignedString(a.secret)
}

// JWTAuth verifies the bearer token. Once users has loaded, the stored account replaces the
// name and role in the claims and a deleted account is rejected. A nil users trusts the claims.
func (a *Auth) JWTAuth(users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		uid, _ := claims["uid"].(string)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if users != nil && !users.LoadedAt().IsZero() {
			u, ok := users.User(uid)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "账号不存在或已被删除"})
				return
			}
			name, role = u.Name, string(u.Role)
		}
		c.Set(KeyUserID, uid)
		c.Set(KeyUserName, name)
		c.Set(KeyRole, role)

		// 剩余不到1天时自动续期
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < renewWindow {
				if fresh, err := a.sign(uid, name, role); err == nil {
					c.Header("X-New-Token", fresh)
				}
			}
		}

		c.Next()
	}
}

// RequireRole rejects callers whose resolved role is none of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(KeyRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
