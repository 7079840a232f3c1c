package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
)

type capacityRow struct {
	maxOverride *int
	current     int
	blocked     bool
	reason      string
}

// memoryCapacityRepo mirrors the upsert-increment semantics of the SQL store.
type memoryCapacityRepo struct {
	rows map[time.Time]*capacityRow
}

func newMemoryCapacityRepo() *memoryCapacityRepo {
	return &memoryCapacityRepo{rows: make(map[time.Time]*capacityRow)}
}

func (r *memoryCapacityRepo) entity(date time.Time, row *capacityRow, defaultMax int) *adhoc.Capacity {
	return adhoc.ReconstructStoredCapacity(date, row.maxOverride, defaultMax, row.current, row.blocked, row.reason)
}

func (r *memoryCapacityRepo) GetByDate(_ context.Context, date time.Time, defaultMax int) (*adhoc.Capacity, error) {
	row, ok := r.rows[date]
	if !ok {
		return nil, nil
	}
	return r.entity(date, row, defaultMax), nil
}

func (r *memoryCapacityRepo) ListInRange(_ context.Context, rng schedule.DateRange, defaultMax int) ([]*adhoc.Capacity, error) {
	var out []*adhoc.Capacity
	for d, row := range r.rows {
		if rng.Contains(d) {
			out = append(out, r.entity(d, row, defaultMax))
		}
	}
	return out, nil
}

func (r *memoryCapacityRepo) row(date time.Time) *capacityRow {
	row, ok := r.rows[date]
	if !ok {
		row = &capacityRow{}
		r.rows[date] = row
	}
	return row
}

func (r *memoryCapacityRepo) Increment(_ context.Context, date time.Time, delta int) error {
	row := r.row(date)
	row.current += delta
	if row.current < 0 {
		row.current = 0
	}
	return nil
}

func (r *memoryCapacityRepo) TryReserve(_ context.Context, date time.Time, n, defaultMax int) (bool, error) {
	row := r.row(date)
	max := defaultMax
	if row.maxOverride != nil {
		max = *row.maxOverride
	}
	if row.blocked || row.current+n > max {
		return false, nil
	}
	row.current += n
	return true, nil
}

func (r *memoryCapacityRepo) SaveSettings(_ context.Context, c *adhoc.Capacity) error {
	row := r.row(c.Date())
	row.maxOverride = c.MaxOverride()
	row.blocked = c.IsBlocked()
	row.reason = c.BlockReason()
	return nil
}

type mockRequestRepository struct {
	requests  map[uint]*adhoc.Request
	nextID    uint
	updates   int
	locked    int
	updateErr error
}

func newMockRequestRepository(rs ...*adhoc.Request) *mockRequestRepository {
	m := &mockRequestRepository{requests: make(map[uint]*adhoc.Request), nextID: 100}
	for _, r := range rs {
		m.requests[r.ID()] = r
	}
	return m
}

func (m *mockRequestRepository) Create(_ context.Context, r *adhoc.Request) error {
	m.nextID++
	r.SetID(m.nextID)
	for i, item := range r.Items() {
		item.SetID(m.nextID*10 + uint(i))
	}
	m.requests[r.ID()] = r
	return nil
}

func (m *mockRequestRepository) GetByID(_ context.Context, id uint) (*adhoc.Request, error) {
	return m.requests[id], nil
}

func (m *mockRequestRepository) GetByIDForUpdate(_ context.Context, id uint) (*adhoc.Request, error) {
	m.locked++
	return m.requests[id], nil
}

func (m *mockRequestRepository) Update(_ context.Context, r *adhoc.Request) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	m.requests[r.ID()] = r
	return nil
}

func (m *mockRequestRepository) ReplaceItems(_ context.Context, r *adhoc.Request) error {
	for i, item := range r.Items() {
		item.SetID(r.ID()*100 + uint(i))
	}
	return nil
}

type mockProductRepository struct {
	products map[uint]*catalog.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: map[uint]*catalog.Product{
		1: catalog.ReconstructProduct(1, "Toned milk", "litre", decimal.NewFromInt(60), true),
		2: catalog.ReconstructProduct(2, "Curd", "500g", decimal.RequireFromString("45.50"), true),
		3: catalog.ReconstructProduct(3, "Paneer", "200g", decimal.NewFromInt(90), false),
	}}
}

func (m *mockProductRepository) GetByID(_ context.Context, id uint) (*catalog.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepository) GetPriceOn(_ context.Context, id uint, _ time.Time) (decimal.Decimal, error) {
	return m.products[id].Price(), nil
}

type mockAddressRepository struct{}

func (mockAddressRepository) GetByID(_ context.Context, id uint) (*customer.Address, error) {
	if id != 4 {
		return nil, nil
	}
	return customer.ReconstructAddress(4, 3, "Home", "12 Lake Road"), nil
}

type mockAdhocMaterializer struct {
	items []*adhoc.Item
}

func (m *mockAdhocMaterializer) MaterializeAdhocItems(_ context.Context, _ *adhoc.Request, items []*adhoc.Item) (int, error) {
	m.items = append(m.items, items...)
	return len(items), nil
}

type mockDeliveryRepository struct {
	cancelledItems []uint
}

func (m *mockDeliveryRepository) TryInsert(context.Context, *delivery.Delivery) (delivery.InsertResult, error) {
	return delivery.InsertCreated, nil
}

func (m *mockDeliveryRepository) Create(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) GetByID(context.Context, uint) (*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepository) Update(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) ListForCustomerPeriod(context.Context, uint, schedule.DateRange) ([]*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepository) CountForSubscription(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForSubscription(context.Context, uint, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) DeleteScheduledForSubscription(context.Context, uint, time.Time, *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForAdhocItems(_ context.Context, ids []uint) (int64, error) {
	m.cancelledItems = append(m.cancelledItems, ids...)
	return int64(len(ids)), nil
}

type staticSettings struct {
	settings setting.BusinessSettings
}

func (s staticSettings) BusinessSettings(context.Context) (setting.BusinessSettings, error) {
	return s.settings, nil
}

func defaultSettings() staticSettings {
	return staticSettings{settings: setting.DefaultBusinessSettings()}
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}
