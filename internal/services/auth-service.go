package services

import (
	"context"
	"errors"

	"production-system/internal/dto"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Me(ctx context.Context, operatorID uint64) (*dto.OperatorDTO, error)
}

type AuthService struct {
	operatorRepo repositories.OperatorRepositoryInterface
	jwtService   service.JWTService
	logger       *zap.Logger
}

func NewAuthService(
	operatorRepo repositories.OperatorRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{operatorRepo: operatorRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	operator, err := s.operatorRepo.FindByLogin(ctx, payload.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.NewTransientError("Не удалось проверить оператора", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(payload.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(int(operator.ID))
	if err != nil {
		s.logger.Error("Не удалось выпустить токены", zap.Error(err))
		return nil, apperrors.NewInternalError("Ошибка выпуска токенов")
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// оператор мог быть удален после выпуска refresh-токена
	if _, err := s.operatorRepo.FindByID(ctx, uint64(claims.OperatorID)); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrOperatorNotFound
		}
		return nil, apperrors.NewTransientError("Не удалось проверить оператора", err)
	}

	access, refresh, err := s.jwtService.GenerateTokens(claims.OperatorID)
	if err != nil {
		s.logger.Error("Не удалось выпустить токены", zap.Error(err))
		return nil, apperrors.NewInternalError("Ошибка выпуска токенов")
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Me(ctx context.Context, operatorID uint64) (*dto.OperatorDTO, error) {
	operator, err := s.operatorRepo.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return &dto.OperatorDTO{
		ID:        operator.ID,
		Fio:       operator.Fio,
		Login:     operator.Login,
		CreatedAt: operator.CreatedAt.Local().Format(timeLayout),
	}, nil
}
