package service

import (
	"context"

	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/util"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"

	"go.uber.org/zap"
)

// UserService 管理后台的用户操作
type UserService struct {
	UserRepo    *repository.UserRepository
	Leaderboard *LeaderboardService
}

func NewUserService(userRepo *repository.UserRepository, leaderboard *LeaderboardService) *UserService {
	return &UserService{UserRepo: userRepo, Leaderboard: leaderboard}
}

// DeleteUser 同时删除该用户的全部尝试
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	affected, err := s.UserRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrUserNotFound
	}
	logger.Log.Info("user deleted", zap.Uint("userID", id))
	if s.Leaderboard != nil {
		s.Leaderboard.Invalidate(ctx)
	}
	return nil
}
