package services

import (
	"context"
	"encoding/json"
	"time"

	"production-system/internal/dto"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"

	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:terminal"

type CatalogServiceInterface interface {
	GetCatalog(ctx context.Context) (*dto.CatalogDTO, error)
	InvalidateCatalog(ctx context.Context) error
	GetProduct(ctx context.Context, productID uint64) (*dto.ProductDTO, error)
}

// CatalogService отдает справочники терминала (фазы, коды простоев).
// Справочники меняются редко, поэтому снимок живет в Redis.
type CatalogService struct {
	phaseRepo repositories.PhaseRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewCatalogService(
	phaseRepo repositories.PhaseRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		phaseRepo: phaseRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *CatalogService) GetCatalog(ctx context.Context) (*dto.CatalogDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, catalogCacheKey); err == nil && cached != "" {
		var out dto.CatalogDTO
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out, nil
		}
		// битый кэш не страшен, соберем заново
	}

	phases, err := s.phaseRepo.GetPhases(ctx)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось загрузить фазы", err)
	}
	codes, err := s.phaseRepo.GetDeadTimeCodes(ctx)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось загрузить коды простоев", err)
	}

	out := &dto.CatalogDTO{
		Phases:        make([]dto.PhaseDTO, 0, len(phases)),
		DeadTimeCodes: make([]dto.DeadTimeCodeDTO, 0, len(codes)),
	}
	for _, p := range phases {
		out.Phases = append(out.Phases, dto.PhaseDTO{ID: p.ID, Code: p.Code, Name: p.Name})
	}
	for _, c := range codes {
		out.DeadTimeCodes = append(out.DeadTimeCodes, dto.DeadTimeCodeDTO{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Requirement: string(c.Requirement),
		})
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := s.cacheRepo.Set(ctx, catalogCacheKey, raw, s.cacheTTL); err != nil {
			s.logger.Warn("Не удалось закэшировать справочник", zap.Error(err))
		}
	}
	return out, nil
}

func (s *CatalogService) InvalidateCatalog(ctx context.Context) error {
	return s.cacheRepo.Del(ctx, catalogCacheKey)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uint64) (*dto.ProductDTO, error) {
	product, err := s.phaseRepo.FindProductWithPhases(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductDTO{
		ID:      product.ID,
		Name:    product.Name,
		Article: product.Article,
		Phases:  make([]dto.PhaseDefinitionDTO, 0, len(product.Phases)),
	}
	for _, def := range product.Phases {
		out.Phases = append(out.Phases, dto.PhaseDefinitionDTO{
			PhaseID:                   def.PhaseID,
			PhaseCode:                 def.PhaseCode,
			PhaseName:                 def.PhaseName,
			SequencePosition:          def.SequencePosition,
			SetupTimeSec:              def.SetupTimeSec,
			ProductionTimePerPieceSec: def.ProductionTimePerPieceSec,
			RequiresFind:              def.RequiresFind,
		})
	}
	return out, nil
}
