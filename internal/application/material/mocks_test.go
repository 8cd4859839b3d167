package material

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/atelier/backend/internal/domain/material"
	"github.com/atelier/backend/internal/domain/shared"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockRawMaterialRepository is a mock implementation of material.RawMaterialRepository
type MockRawMaterialRepository struct {
	mock.Mock
}

func (m *MockRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.RawMaterial), args.Error(1)
}

func (m *MockRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRawMaterialRepository) Create(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

func (m *MockRawMaterialRepository) Save(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

func (m *MockRawMaterialRepository) SaveWithLock(ctx context.Context, mat *material.RawMaterial) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

// MockStockMovementRepository is a mock implementation of material.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, mv *material.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*material.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]material.StockMovement, error) {
	args := m.Called(ctx, materialID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, materialID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockMovementRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]material.StockMovement, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]material.StockMovement), args.Error(1)
}

// MockTransactionScope runs the scoped function against the supplied mock
// repositories without a real transaction.
type MockTransactionScope struct {
	materials material.RawMaterialRepository
	movements material.StockMovementRepository
}

func NewMockTransactionScope(materials material.RawMaterialRepository, movements material.StockMovementRepository) *MockTransactionScope {
	return &MockTransactionScope{materials: materials, movements: movements}
}

func (s *MockTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *MockTransactionScope) Materials() material.RawMaterialRepository {
	return s.materials
}

func (s *MockTransactionScope) Movements() material.StockMovementRepository {
	return s.movements
}
