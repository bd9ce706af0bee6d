package services

import (
	"context"
	"encoding/json"
	"time"

	"production-system/internal/repositories"
	"production-system/pkg/eventbus"
	"production-system/pkg/websocket"

	"go.uber.org/zap"
)

const liveStatusCacheKey = "live_status:snapshot"

// LiveStatusPoller периодически пересобирает снимок цеха, кладет его в кэш
// и рассылает подключенным клиентам. Ошибка тика не фатальна: снимок
// просто обновится на следующем тике.
type LiveStatusPoller struct {
	service   LiveStatusServiceInterface
	hub       *websocket.Hub
	cacheRepo repositories.CacheRepositoryInterface
	interval  time.Duration
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewLiveStatusPoller(
	service LiveStatusServiceInterface,
	hub *websocket.Hub,
	cacheRepo repositories.CacheRepositoryInterface,
	interval, cacheTTL time.Duration,
	logger *zap.Logger,
) *LiveStatusPoller {
	return &LiveStatusPoller{
		service:   service,
		hub:       hub,
		cacheRepo: cacheRepo,
		interval:  interval,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (p *LiveStatusPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Опрос статуса цеха остановлен")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// Notify пересобирает снимок вне расписания. Подписывается на
// session.changed, чтобы табло обновлялось сразу после действий операторов.
func (p *LiveStatusPoller) Notify(ctx context.Context, _ eventbus.Event) error {
	p.tick(ctx)
	return nil
}

func (p *LiveStatusPoller) tick(ctx context.Context) {
	status, err := p.service.GetLiveStatus(ctx)
	if err != nil {
		p.logger.Warn("Тик статуса цеха не удался, повтор на следующем тике", zap.Error(err))
		return
	}

	if raw, err := json.Marshal(status); err == nil {
		if err := p.cacheRepo.Set(ctx, liveStatusCacheKey, raw, p.cacheTTL); err != nil {
			p.logger.Warn("Не удалось закэшировать снимок статуса", zap.Error(err))
		}
	}

	if err := p.hub.Broadcast(status, websocket.MessageTypeLiveStatus); err != nil {
		p.logger.Warn("Не удалось разослать снимок статуса", zap.Error(err))
	}
}
