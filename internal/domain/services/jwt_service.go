package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"property-http-service/internal/infrastructure/config"
	"property-http-service/internal/utils"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid username or password")

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(username string) (string, time.Time, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	Login(username, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTService 提供JWT相关服务, 管理员账号来自配置
type JWTService struct {
	secretKey     string
	issuer        string
	expiration    time.Duration
	adminUsername string
	adminHash     []byte
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config) InterfaceJWTService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &JWTService{
		secretKey:     cfg.JWTSecretKey,
		issuer:        "property-http-service",
		expiration:    expiration,
		adminUsername: cfg.AdminUsername,
		adminHash:     []byte(cfg.AdminPasswordHash),
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(username string) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(s.expiration)

	claims := &JWTClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expirationTime, nil
}

// ValidateToken 验证JWT令牌并返回声明
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Issuer != s.issuer {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Login 校验管理员账号并签发令牌
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	if len(s.adminHash) == 0 || username != s.adminUsername {
		return nil, ErrInvalidCredentials
	}
	// 比较密码
	if !utils.CheckPasswordHash(password, string(s.adminHash)) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Username: username, ExpiresAt: expiresAt}, nil
}
