package order

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/settings"
	"github.com/brewnote/cafepos/internal/tables"
)

// MockOrderRepo is a test mock for OrderRepo
type MockOrderRepo struct {
	orders map[uuid.UUID]*Order

	CreateFunc          func(ctx context.Context, o *Order) error
	GetFunc             func(ctx context.Context, id uuid.UUID) (*Order, error)
	ListFunc            func(ctx context.Context) ([]*Order, error)
	ListByStatusFunc    func(ctx context.Context, status string) ([]*Order, error)
	FindOpenByTableFunc func(ctx context.Context, tableID uuid.UUID) (*Order, error)
	SaveFunc            func(ctx context.Context, o *Order) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, o *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.orders[id], nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	result := make([]*Order, 0, len(m.orders))
	for _, o := range m.orders {
		result = append(result, o)
	}
	return result, nil
}

func (m *MockOrderRepo) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	result := make([]*Order, 0)
	for _, o := range m.orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*Order, error) {
	if m.FindOpenByTableFunc != nil {
		return m.FindOpenByTableFunc(ctx, tableID)
	}
	for _, o := range m.orders {
		if o.TableID != nil && *o.TableID == tableID && o.Status == StatusOpen {
			return o, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, o *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, o)
	}
	if _, exists := m.orders[o.ID]; !exists {
		return errors.New("order not found")
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	if _, exists := m.orders[id]; !exists {
		return errors.New("order not found")
	}
	delete(m.orders, id)
	return nil
}

// AddOrder is a helper to seed the mock repository
func (m *MockOrderRepo) AddOrder(o *Order) {
	m.orders[o.ID] = o
}

// MockTableRepo is a test mock for tables.TableRepo
type MockTableRepo struct {
	tables map[uuid.UUID]*tables.Table

	GetFunc               func(ctx context.Context, id uuid.UUID) (*tables.Table, error)
	FindByActiveOrderFunc func(ctx context.Context, orderID uuid.UUID) (*tables.Table, error)
	SaveFunc              func(ctx context.Context, table *tables.Table) error
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*tables.Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *tables.Table) error {
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.tables[id], nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	result := make([]*tables.Table, 0, len(m.tables))
	for _, t := range m.tables {
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTableRepo) FindByActiveOrder(ctx context.Context, orderID uuid.UUID) (*tables.Table, error) {
	if m.FindByActiveOrderFunc != nil {
		return m.FindByActiveOrderFunc(ctx, orderID)
	}
	for _, t := range m.tables {
		if t.ActiveOrderID != nil && *t.ActiveOrderID == orderID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) Save(ctx context.Context, table *tables.Table) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	if _, exists := m.tables[table.ID]; !exists {
		return errors.New("table not found")
	}
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.tables[id]; !exists {
		return errors.New("table not found")
	}
	delete(m.tables, id)
	return nil
}

// AddTable is a helper to seed the mock repository
func (m *MockTableRepo) AddTable(t *tables.Table) {
	m.tables[t.ID] = t
}

// MockTaxProvider is a test mock for settings.Provider
type MockTaxProvider struct {
	Settings        settings.TaxSettings
	TaxSettingsFunc func(ctx context.Context) (settings.TaxSettings, error)
}

func (m *MockTaxProvider) TaxSettings(ctx context.Context) (settings.TaxSettings, error) {
	if m.TaxSettingsFunc != nil {
		return m.TaxSettingsFunc(ctx)
	}
	return m.Settings, nil
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}
