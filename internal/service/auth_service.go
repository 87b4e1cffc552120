package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 玩家按邮箱注册/登录（无密码），管理员使用配置中的共享账号
type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config

	adminUser string
	adminHash []byte
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) (*AuthService, error) {
	// 启动时只保留管理员密码的哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		UserRepo:  userRepo,
		Cfg:       cfg,
		adminUser: cfg.Admin.Username,
		adminHash: hash,
	}, nil
}

type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user,omitempty"`
	Admin bool        `json:"admin"`
}

func (s *AuthService) Register(ctx context.Context, name, email string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, errors.Join(util.ErrInvalidInput, errors.New("name and email required"))
	}

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{Name: name, Email: email}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return s.userSession(user)
}

func (s *AuthService) Login(ctx context.Context, email string) (*Session, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, errors.Join(util.ErrInvalidInput, errors.New("email required"))
	}
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.userSession(user)
}

func (s *AuthService) AdminLogin(username, password string) (*Session, error) {
	if username != s.adminUser {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	token, err := util.GenerateJWT(util.Claims{IsAdmin: true}, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Admin: true}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, viewer model.Viewer) (*model.User, error) {
	if !viewer.Known() {
		return nil, util.ErrNotAuthenticated
	}
	user, err := s.UserRepo.FindByID(ctx, viewer.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) userSession(user *model.User) (*Session, error) {
	token, err := util.GenerateJWT(util.Claims{UserID: user.ID, Email: user.Email}, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
