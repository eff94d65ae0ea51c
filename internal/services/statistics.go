package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

// StatisticsService отдаёт агрегаты по технике из кеша с TTL.
// Кеш — чистое производное представление: при ошибке пересчёта
// действующая запись не затирается, ошибка уходит вызывающему.
// Конкурентные пересчёты одного ключа допустимы, побеждает последняя
// запись.
type StatisticsService struct {
	statsRepo repositories.StatisticsRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cfg       config.CacheConfig
	logger    *zap.Logger
}

func NewStatisticsService(
	statsRepo repositories.StatisticsRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg config.CacheConfig,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

func scopeCacheKey(kind string, scope types.TenantScope) string {
	if scope.Global {
		return fmt.Sprintf("%s:global", kind)
	}
	return fmt.Sprintf("%s:tenant:%d", kind, scope.UniversityID)
}

func (s *StatisticsService) GetStatistics(ctx context.Context, refresh bool) (*dto.StatisticsDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	key := scopeCacheKey("statistics", scope)
	if !refresh {
		if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
			var payload dto.StatisticsDTO
			if err := json.Unmarshal([]byte(cached), &payload); err == nil {
				payload.Cached = true
				return &payload, nil
			}
			s.logger.Warn("Повреждённая запись кеша статистики", zap.String("key", key))
		} else if !errors.Is(err, repositories.ErrCacheMiss) {
			// Недоступный кеш не блокирует ответ, считаем напрямую.
			s.logger.Warn("Кеш статистики недоступен", zap.Error(err))
		}
	}

	payload, err := s.computeStatistics(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.storeCache(ctx, key, payload, s.cfg.StatisticsTTL)
	return payload, nil
}

func (s *StatisticsService) GetDashboard(ctx context.Context, refresh bool) (*dto.DashboardDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	key := scopeCacheKey("dashboard", scope)
	if !refresh {
		if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
			var payload dto.DashboardDTO
			if err := json.Unmarshal([]byte(cached), &payload); err == nil {
				payload.Cached = true
				return &payload, nil
			}
			s.logger.Warn("Повреждённая запись кеша дашборда", zap.String("key", key))
		} else if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Кеш дашборда недоступен", zap.Error(err))
		}
	}

	payload, err := s.computeDashboard(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.storeCache(ctx, key, payload, s.cfg.DashboardTTL)
	return payload, nil
}

// RefreshAll принудительно пересчитывает оба кеш-слота области.
func (s *StatisticsService) RefreshAll(ctx context.Context) error {
	if _, err := s.GetStatistics(ctx, true); err != nil {
		return err
	}
	_, err := s.GetDashboard(ctx, true)
	return err
}

func (s *StatisticsService) computeStatistics(ctx context.Context, scope types.TenantScope) (*dto.StatisticsDTO, error) {
	// Пересчёт ограничен дедлайном: при его превышении вызывающий
	// получает ошибку таймаута, а действующий кеш остаётся нетронутым.
	ctx, cancel := utils.ContextWithTimeout(ctx, s.cfg.RecomputeTimeout)
	defer cancel()

	total, active, disposed, err := s.statsRepo.GetOverallCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт статистики: %w", err)
	}
	byStatus, err := s.statsRepo.GetCountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт статистики: %w", err)
	}
	byType, err := s.statsRepo.GetCountByType(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт статистики: %w", err)
	}
	byLocation, err := s.statsRepo.GetCountByLocation(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт статистики: %w", err)
	}

	return &dto.StatisticsDTO{
		Overall: dto.OverallCountsDTO{
			Total:    total,
			Active:   active,
			Disposed: disposed,
		},
		ByStatus:    byStatus,
		ByType:      byType,
		ByLocation:  byLocation,
		Cached:      false,
		GeneratedAt: time.Now().Format(types.TimeLayout),
	}, nil
}

func (s *StatisticsService) computeDashboard(ctx context.Context, scope types.TenantScope) (*dto.DashboardDTO, error) {
	ctx, cancel := utils.ContextWithTimeout(ctx, s.cfg.RecomputeTimeout)
	defer cancel()

	total, _, _, err := s.statsRepo.GetOverallCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт дашборда: %w", err)
	}
	byStatus, err := s.statsRepo.GetCountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("пересчёт дашборда: %w", err)
	}
	topTypes, err := s.statsRepo.GetTopTypes(ctx, scope, 5)
	if err != nil {
		return nil, fmt.Errorf("пересчёт дашборда: %w", err)
	}

	return &dto.DashboardDTO{
		Total:       total,
		InStock:     byStatus["in_stock"],
		InUse:       byStatus["in_use"],
		InRepair:    byStatus["in_repair"],
		Disposed:    byStatus["disposed"],
		TopTypes:    topTypes,
		Cached:      false,
		GeneratedAt: time.Now().Format(types.TimeLayout),
	}, nil
}

// storeCache кладёт свежий payload в кеш. Ошибка записи не фатальна:
// данные уже вычислены и будут отданы вызывающему.
func (s *StatisticsService) storeCache(ctx context.Context, key string, payload interface{}, ttl time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Ошибка сериализации кеша статистики", zap.Error(err))
		return
	}
	if err := s.cacheRepo.Set(ctx, key, string(raw), ttl); err != nil {
		s.logger.Warn("Не удалось записать кеш статистики",
			zap.String("key", key), zap.Error(err))
	}
}
