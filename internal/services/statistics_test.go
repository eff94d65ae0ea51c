package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/pkg/config"
)

func newStatsFixture(t *testing.T) (*StatisticsService, *fakeStatsRepo, *fakeCacheRepo) {
	t.Helper()

	statsRepo := newFakeStatsRepo()
	cacheRepo := newFakeCacheRepo()
	cfg := config.CacheConfig{
		StatisticsTTL:    5 * time.Minute,
		DashboardTTL:     2 * time.Minute,
		RecomputeTimeout: 10 * time.Second,
	}
	return NewStatisticsService(statsRepo, cacheRepo, cfg, zap.NewNop()), statsRepo, cacheRepo
}

func TestGetStatistics_ComputesAndCaches(t *testing.T) {
	svc, _, cacheRepo := newStatsFixture(t)

	d, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)

	assert.False(t, d.Cached, "первый ответ вычислен напрямую")
	assert.Equal(t, uint64(6), d.Overall.Total)
	assert.Equal(t, uint64(5), d.Overall.Active)
	assert.Equal(t, uint64(1), d.Overall.Disposed)
	assert.NotEmpty(t, d.GeneratedAt)

	assert.Contains(t, cacheRepo.values, "statistics:tenant:1")
}

// Повторный запрос в пределах TTL отдаёт кешированные данные:
// _cached=true, _generated_at совпадает с моментом пересчёта, а изменения
// в БД не видны до истечения TTL или явного refresh.
func TestGetStatistics_CacheHit(t *testing.T) {
	svc, statsRepo, _ := newStatsFixture(t)

	first, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)

	statsRepo.byStatus["in_stock"] = 100

	second, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	assert.Equal(t, first.Overall.Total, second.Overall.Total, "изменения БД не видны из кеша")
	assert.Equal(t, 1, statsRepo.computes, "повторный запрос не трогает БД")
}

func TestGetStatistics_RefreshBypassesCache(t *testing.T) {
	svc, statsRepo, _ := newStatsFixture(t)

	_, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)

	statsRepo.byStatus["in_stock"] = 100

	d, err := svc.GetStatistics(testCtx(), true)
	require.NoError(t, err)

	assert.False(t, d.Cached)
	assert.Equal(t, uint64(103), d.Overall.Total)

	// Пересчитанное значение заменило кеш.
	cached, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, uint64(103), cached.Overall.Total)
}

// Ошибка пересчёта уходит вызывающему, а действующая запись кеша
// не затирается: следующий запрос без refresh отдаёт прежние данные.
func TestGetStatistics_RecomputeErrorKeepsCache(t *testing.T) {
	svc, statsRepo, cacheRepo := newStatsFixture(t)

	first, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)

	statsRepo.err = fmt.Errorf("имитация отказа БД")

	_, err = svc.GetStatistics(testCtx(), true)
	require.Error(t, err)

	assert.Contains(t, cacheRepo.values, "statistics:tenant:1")

	statsRepo.err = nil
	statsRepo.byStatus["in_stock"] = 100

	cached, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, first.Overall.Total, cached.Overall.Total)
}

// Недоступный кеш не блокирует ответ: статистика считается напрямую.
func TestGetStatistics_CacheUnavailable(t *testing.T) {
	svc, _, cacheRepo := newStatsFixture(t)
	cacheRepo.getErr = fmt.Errorf("имитация отказа redis")
	cacheRepo.setErr = fmt.Errorf("имитация отказа redis")

	d, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)
	assert.False(t, d.Cached)
	assert.Equal(t, uint64(6), d.Overall.Total)
}

// Повреждённая запись кеша не роняет запрос, данные пересчитываются.
func TestGetStatistics_CorruptCacheEntry(t *testing.T) {
	svc, _, cacheRepo := newStatsFixture(t)
	cacheRepo.values["statistics:tenant:1"] = "{не json"

	d, err := svc.GetStatistics(testCtx(), false)
	require.NoError(t, err)
	assert.False(t, d.Cached)
}

func TestGetDashboard(t *testing.T) {
	svc, statsRepo, cacheRepo := newStatsFixture(t)

	d, err := svc.GetDashboard(testCtx(), false)
	require.NoError(t, err)

	assert.False(t, d.Cached)
	assert.Equal(t, uint64(6), d.Total)
	assert.Equal(t, uint64(3), d.InStock)
	assert.Equal(t, uint64(2), d.InUse)
	assert.Equal(t, uint64(1), d.Disposed)
	assert.Equal(t, statsRepo.byType, d.TopTypes)

	// Дашборд живёт в отдельном кеш-слоте.
	assert.Contains(t, cacheRepo.values, "dashboard:tenant:1")

	cached, err := svc.GetDashboard(testCtx(), false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
}

func TestRefreshAll(t *testing.T) {
	svc, statsRepo, cacheRepo := newStatsFixture(t)

	require.NoError(t, svc.RefreshAll(testCtx()))
	assert.Contains(t, cacheRepo.values, "statistics:tenant:1")
	assert.Contains(t, cacheRepo.values, "dashboard:tenant:1")

	// Два пересчёта: статистика и дашборд.
	assert.Equal(t, 2, statsRepo.computes)
}
