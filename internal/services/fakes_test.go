package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// Тестовые фейки репозиториев: всё в памяти, транзакция — вызов fn(nil).

func testCtx() context.Context {
	return context.WithValue(context.Background(),
		contextkeys.TenantScopeKey, types.ScopeFor(1, "demo"))
}

func testCtxWithUser(userID uint64) context.Context {
	return context.WithValue(testCtx(), contextkeys.UserIDKey, userID)
}

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeTypeRepo struct {
	types   map[uint64]entities.EquipmentType
	refs    map[uint64]bool // id -> есть ли шаблоны
	created []entities.EquipmentType
	nextID  uint64
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: map[uint64]entities.EquipmentType{}, refs: map[uint64]bool{}, nextID: 1}
}

func (r *fakeTypeRepo) GetEquipmentTypes(ctx context.Context, scope types.TenantScope, limit, offset uint64) ([]entities.EquipmentType, uint64, error) {
	out := make([]entities.EquipmentType, 0)
	for _, et := range r.types {
		if scope.Global || et.UniversityID == scope.UniversityID {
			out = append(out, et)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTypeRepo) FindEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) (*entities.EquipmentType, error) {
	et, ok := r.types[id]
	if !ok || (!scope.Global && et.UniversityID != scope.UniversityID) {
		return nil, apperrors.ErrNotFound
	}
	cp := et
	return &cp, nil
}

func (r *fakeTypeRepo) CreateEquipmentType(ctx context.Context, et entities.EquipmentType) (uint64, error) {
	for _, existing := range r.types {
		if existing.UniversityID == et.UniversityID && existing.Slug == et.Slug {
			return 0, apperrors.NewConflictError("slug занят")
		}
	}
	et.ID = r.nextID
	r.nextID++
	now := time.Now()
	et.CreatedAt = &now
	et.UpdatedAt = &now
	r.types[et.ID] = et
	r.created = append(r.created, et)
	return et.ID, nil
}

func (r *fakeTypeRepo) UpdateEquipmentType(ctx context.Context, scope types.TenantScope, id uint64, name, slug string) error {
	et, ok := r.types[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	et.Name = name
	et.Slug = slug
	r.types[id] = et
	return nil
}

func (r *fakeTypeRepo) DeleteEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) error {
	if _, ok := r.types[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.types, id)
	return nil
}

func (r *fakeTypeRepo) HasSpecifications(ctx context.Context, id uint64) (bool, error) {
	return r.refs[id], nil
}

type fakeSpecRepo struct {
	specs  map[uint64]entities.Specification
	order  []uint64 // порядок создания
	nextID uint64
}

func newFakeSpecRepo() *fakeSpecRepo {
	return &fakeSpecRepo{specs: map[uint64]entities.Specification{}, nextID: 1}
}

func (r *fakeSpecRepo) FindSpecification(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Specification, error) {
	s, ok := r.specs[id]
	if !ok || (!scope.Global && s.UniversityID != scope.UniversityID) {
		return nil, apperrors.ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (r *fakeSpecRepo) ListByType(ctx context.Context, scope types.TenantScope, typeID uint64) ([]entities.Specification, error) {
	out := make([]entities.Specification, 0)
	for _, id := range r.order {
		s := r.specs[id]
		if s.TypeID == typeID && (scope.Global || s.UniversityID == scope.UniversityID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSpecRepo) CreateSpecification(ctx context.Context, s entities.Specification) (uint64, error) {
	s.ID = r.nextID
	r.nextID++
	now := time.Now()
	s.CreatedAt = &now
	s.UpdatedAt = &now
	r.specs[s.ID] = s
	r.order = append(r.order, s.ID)
	return s.ID, nil
}

func (r *fakeSpecRepo) UpdateSpecification(ctx context.Context, scope types.TenantScope, id uint64, name string, specs entities.Characteristics) error {
	s, ok := r.specs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.Name = name
	s.Specs = specs
	r.specs[id] = s
	return nil
}

func (r *fakeSpecRepo) DeleteSpecification(ctx context.Context, scope types.TenantScope, id uint64) error {
	if _, ok := r.specs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.specs, id)
	return nil
}

type fakeLocationRepo struct {
	rooms      map[uint64]entities.Room
	warehouses map[uint64]entities.Warehouse
	mainWhID   uint64
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		rooms:      map[uint64]entities.Room{101: {ID: 101, Number: "101", Name: "Аудитория 101"}},
		warehouses: map[uint64]entities.Warehouse{1: {ID: 1, UniversityID: 1, Name: "Главный склад", IsMain: true}},
		mainWhID:   1,
	}
}

func (r *fakeLocationRepo) FindRoom(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := room
	return &cp, nil
}

func (r *fakeLocationRepo) FindWarehouse(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := w
	return &cp, nil
}

func (r *fakeLocationRepo) GetMainWarehouse(ctx context.Context, universityID uint64) (*entities.Warehouse, error) {
	w, ok := r.warehouses[r.mainWhID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := w
	return &cp, nil
}

func (r *fakeLocationRepo) CreateWarehouse(ctx context.Context, w entities.Warehouse) (uint64, error) {
	id := uint64(len(r.warehouses) + 1)
	w.ID = id
	r.warehouses[id] = w
	return id, nil
}

type fakeEquipmentRepo struct {
	items  map[uint64]entities.Equipment
	nextID uint64
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: map[uint64]entities.Equipment{}, nextID: 1}
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, scope types.TenantScope, filter types.Filter) ([]entities.Equipment, uint64, error) {
	out := make([]entities.Equipment, 0)
	for _, e := range r.items {
		if scope.Global || e.UniversityID == scope.UniversityID {
			out = append(out, e)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Equipment, error) {
	e, ok := r.items[id]
	if !ok || (!scope.Global && e.UniversityID != scope.UniversityID) {
		return nil, apperrors.ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (r *fakeEquipmentRepo) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, scope, id)
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	if e.Inn != nil {
		for _, existing := range r.items {
			if existing.UniversityID == e.UniversityID && existing.Inn != nil && *existing.Inn == *e.Inn {
				return 0, apperrors.NewConflictError("Инвентарный номер уже занят")
			}
		}
	}
	e.ID = r.nextID
	r.nextID++
	now := time.Now()
	e.CreatedAt = &now
	r.items[e.ID] = e
	return e.ID, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, scope types.TenantScope, id uint64, name, description, inn *string, isActive *bool) error {
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if name != nil {
		e.Name = *name
	}
	if description != nil {
		e.Description = *description
	}
	if inn != nil {
		e.Inn = inn
	}
	if isActive != nil {
		e.IsActive = *isActive
	}
	r.items[id] = e
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, scope types.TenantScope, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) ApplyTransition(ctx context.Context, tx pgx.Tx, id uint64, status string, roomID, warehouseID *uint64) error {
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	e.RoomID = roomID
	e.WarehouseID = warehouseID
	r.items[id] = e
	return nil
}

func (r *fakeEquipmentRepo) Scan(ctx context.Context, scope types.TenantScope, identifier string) (*entities.Equipment, error) {
	for _, e := range r.items {
		if !scope.Global && e.UniversityID != scope.UniversityID {
			continue
		}
		if e.Inn != nil && *e.Inn == identifier {
			cp := e
			return &cp, nil
		}
	}
	for _, e := range r.items {
		if !scope.Global && e.UniversityID != scope.UniversityID {
			continue
		}
		if e.UniqueTag == identifier {
			cp := e
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) FindExistingInns(ctx context.Context, tx pgx.Tx, universityID uint64, inns []string) (map[string]uint64, error) {
	taken := make(map[string]uint64)
	for _, inn := range inns {
		for _, e := range r.items {
			if e.UniversityID == universityID && e.Inn != nil && *e.Inn == inn {
				taken[inn] = e.ID
			}
		}
	}
	return taken, nil
}

func (r *fakeEquipmentRepo) UpdateInn(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64, inn string) error {
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Inn = &inn
	r.items[id] = e
	return nil
}

type fakeHistoryRepo struct {
	movements []entities.MovementHistory
	repairs   []entities.Repair
	disposals []entities.Disposal
	nextID    uint64
	// insertErr имитирует сбой записи истории.
	insertErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1}
}

func (r *fakeHistoryRepo) InsertMovement(ctx context.Context, tx pgx.Tx, m entities.MovementHistory) (uint64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	m.ID = r.nextID
	r.nextID++
	m.MovedAt = time.Now()
	r.movements = append(r.movements, m)
	return m.ID, nil
}

func (r *fakeHistoryRepo) InsertRepair(ctx context.Context, tx pgx.Tx, rep entities.Repair) (uint64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	rep.ID = r.nextID
	r.nextID++
	rep.StartDate = time.Now()
	r.repairs = append(r.repairs, rep)
	return rep.ID, nil
}

func (r *fakeHistoryRepo) FindOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64) (*entities.Repair, error) {
	for i := len(r.repairs) - 1; i >= 0; i-- {
		if r.repairs[i].EquipmentID == equipmentID && r.repairs[i].Status == entities.RepairInProgress {
			cp := r.repairs[i]
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeHistoryRepo) CloseOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64, finalStatus, notes string) (uint64, error) {
	for i := len(r.repairs) - 1; i >= 0; i-- {
		if r.repairs[i].EquipmentID == equipmentID && r.repairs[i].Status == entities.RepairInProgress {
			r.repairs[i].Status = finalStatus
			now := time.Now()
			r.repairs[i].EndDate = &now
			if notes != "" {
				r.repairs[i].Notes += " " + notes
			}
			return r.repairs[i].ID, nil
		}
	}
	return 0, apperrors.ErrNotFound
}

func (r *fakeHistoryRepo) InsertDisposal(ctx context.Context, tx pgx.Tx, d entities.Disposal) (uint64, error) {
	d.ID = r.nextID
	r.nextID++
	d.DisposalDate = time.Now()
	r.disposals = append(r.disposals, d)
	return d.ID, nil
}

func (r *fakeHistoryRepo) ListMovements(ctx context.Context, scope types.TenantScope, equipmentID uint64, limit, offset uint64) ([]entities.MovementHistory, uint64, error) {
	out := make([]entities.MovementHistory, 0)
	for _, m := range r.movements {
		if m.EquipmentID == equipmentID {
			out = append(out, m)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeHistoryRepo) ListRepairs(ctx context.Context, scope types.TenantScope, equipmentID uint64) ([]entities.Repair, error) {
	out := make([]entities.Repair, 0)
	for _, rep := range r.repairs {
		if rep.EquipmentID == equipmentID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) FindDisposal(ctx context.Context, scope types.TenantScope, equipmentID uint64) (*entities.Disposal, error) {
	for _, d := range r.disposals {
		if d.EquipmentID == equipmentID {
			cp := d
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeCacheRepo struct {
	values map[string]string
	// getErr имитирует недоступный кеш.
	getErr error
	setErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: map[string]string{}}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	if r.getErr != nil {
		return "", r.getErr
	}
	v, ok := r.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

type fakeStatsRepo struct {
	byStatus   map[string]uint64
	byType     map[string]uint64
	byLocation map[string]uint64
	// err имитирует сбой пересчёта.
	err      error
	computes int
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		byStatus:   map[string]uint64{"in_stock": 3, "in_use": 2, "disposed": 1},
		byType:     map[string]uint64{"Компьютер": 4, "Принтер": 2},
		byLocation: map[string]uint64{"warehouse": 3, "room": 2, "unplaced": 1},
	}
}

func (r *fakeStatsRepo) GetOverallCounts(ctx context.Context, scope types.TenantScope) (uint64, uint64, uint64, error) {
	r.computes++
	if r.err != nil {
		return 0, 0, 0, r.err
	}
	var total uint64
	for _, c := range r.byStatus {
		total += c
	}
	return total, total - r.byStatus["disposed"], r.byStatus["disposed"], nil
}

func (r *fakeStatsRepo) GetCountByStatus(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byStatus, nil
}

func (r *fakeStatsRepo) GetCountByType(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byType, nil
}

func (r *fakeStatsRepo) GetCountByLocation(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byLocation, nil
}

func (r *fakeStatsRepo) GetTopTypes(ctx context.Context, scope types.TenantScope, limit uint64) (map[string]uint64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byType, nil
}
