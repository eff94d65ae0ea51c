package services

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/contextkeys"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

var integrationPool *pgxpool.Pool

// TestMain подключается к тестовой БД и применяет миграции. Без
// TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	if err := postgresql.RunMigrations(dsn); err != nil {
		log.Fatalf("Не удалось применить миграции к тестовой БД: %v", err)
	}

	var err error
	integrationPool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer integrationPool.Close()

	os.Exit(m.Run())
}

func requireIntegrationPool(t *testing.T) {
	t.Helper()
	if integrationPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

// seedLifecycleTenant создаёт университет с главным складом и типом техники.
func seedLifecycleTenant(t *testing.T) (universityID, warehouseID, typeID uint64) {
	t.Helper()
	ctx := context.Background()

	_, err := integrationPool.Exec(ctx,
		`TRUNCATE TABLE disposals, repairs, movement_histories, equipments,
		 specifications, equipment_types, warehouses, rooms, floors, buildings,
		 users, universities RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")

	err = integrationPool.QueryRow(ctx,
		`INSERT INTO universities (key, name, address, is_active)
		 VALUES ('demo', 'Университет demo', 'г. Худжанд', TRUE) RETURNING id`).Scan(&universityID)
	require.NoError(t, err)

	err = integrationPool.QueryRow(ctx,
		`INSERT INTO warehouses (university_id, name, address, is_main)
		 VALUES ($1, 'Главный склад', 'Корпус 1', TRUE) RETURNING id`,
		universityID).Scan(&warehouseID)
	require.NoError(t, err)

	err = integrationPool.QueryRow(ctx,
		`INSERT INTO equipment_types (university_id, name, slug)
		 VALUES ($1, 'Компьютер', 'kompyuter') RETURNING id`,
		universityID).Scan(&typeID)
	require.NoError(t, err)

	return
}

// Конкурирующие переходы по одной единице сериализуются блокировкой строки:
// ровно один проходит, остальные получают ConflictError, запись о ремонте
// открывается одна.
func TestLifecycleService_Integration_ConcurrentTransitions(t *testing.T) {
	requireIntegrationPool(t)

	uniID, whID, typeID := seedLifecycleTenant(t)
	scope := types.ScopeFor(uniID, "demo")
	ctx := context.WithValue(context.Background(), contextkeys.TenantScopeKey, scope)

	equipmentRepo := repositories.NewEquipmentRepository(integrationPool)
	historyRepo := repositories.NewHistoryRepository(integrationPool)
	locationRepo := repositories.NewLocationRepository(integrationPool)
	txManager := repositories.NewTxManager(integrationPool)
	svc := NewLifecycleService(equipmentRepo, historyRepo, locationRepo, txManager, zap.NewNop())

	id, err := equipmentRepo.CreateEquipment(ctx, nil, entities.Equipment{
		UniversityID: uniID,
		TypeID:       typeID,
		WarehouseID:  &whID,
		Name:         "Ноутбук Dell",
		Status:       entities.StatusInStock,
		IsActive:     true,
		UniqueTag:    uuid.NewString(),
	})
	require.NoError(t, err)
	require.NoError(t, equipmentRepo.ApplyTransition(ctx, nil, id, entities.StatusInUse, nil, nil))

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transition(ctx, id, dto.TransitionDTO{Action: entities.ActionSendToRepair})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var cErr *apperrors.ConflictError
		require.ErrorAs(t, err, &cErr, "проигравший переход должен дать конфликт")
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)

	found, err := equipmentRepo.FindEquipment(ctx, scope, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInRepair, found.Status)

	repairs, err := historyRepo.ListRepairs(ctx, scope, id)
	require.NoError(t, err)
	require.Len(t, repairs, 1)
	assert.Equal(t, entities.RepairInProgress, repairs[0].Status)
}
