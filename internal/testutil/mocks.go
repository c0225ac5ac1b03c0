package testutil

import (
	"context"
	"sync"

	"github.com/cassiomorais/reconciler/internal/domain/booking"
	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/cassiomorais/reconciler/internal/domain/intent"
	"github.com/cassiomorais/reconciler/internal/domain/ledger"
	"github.com/cassiomorais/reconciler/internal/domain/notification"
	"github.com/cassiomorais/reconciler/internal/domain/webhook"
	"github.com/google/uuid"
)

// --- Booking Repository Mock ---

// MockBookingRepository is an in-memory booking.Repository.
type MockBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
	updates  int

	UpdatePaymentStatusFunc func(ctx context.Context, id uuid.UUID, status booking.PaymentStatus, amountPaidCents int64) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (m *MockBookingRepository) AddBooking(b *booking.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *MockBookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status booking.PaymentStatus, amountPaidCents int64) error {
	if m.UpdatePaymentStatusFunc != nil {
		return m.UpdatePaymentStatusFunc(ctx, id, status, amountPaidCents)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domainErrors.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.AmountPaid = amountPaidCents
	m.updates++
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domainErrors.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// Get returns the stored booking for assertions.
func (m *MockBookingRepository) Get(id uuid.UUID) *booking.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

// Updates returns the number of successful payment updates.
func (m *MockBookingRepository) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// --- Ledger Repository Mock ---

type MockLedgerRepository struct {
	mu      sync.Mutex
	entries []*ledger.Entry

	InsertFunc func(ctx context.Context, e *ledger.Entry) error
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Insert(ctx context.Context, e *ledger.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockLedgerRepository) Entries() []*ledger.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ledger.Entry(nil), m.entries...)
}

// --- Payment Intent Repository Mock ---

type IntentUpdate struct {
	ID        uuid.UUID
	Status    intent.Status
	Reference string
}

type MockIntentRepository struct {
	mu      sync.Mutex
	updates []IntentUpdate

	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status intent.Status, reference string) error
}

func NewMockIntentRepository() *MockIntentRepository {
	return &MockIntentRepository{}
}

func (m *MockIntentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status intent.Status, reference string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, IntentUpdate{ID: id, Status: status, Reference: reference})
	return nil
}

func (m *MockIntentRepository) Updates() []IntentUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]IntentUpdate(nil), m.updates...)
}

// --- Notification Repository Mock ---

type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications []*notification.Notification

	InsertFunc func(ctx context.Context, n *notification.Notification) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Insert(ctx context.Context, n *notification.Notification) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *MockNotificationRepository) Notifications() []*notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*notification.Notification(nil), m.notifications...)
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs fn directly and counts calls. It cannot roll
// back the in-memory mocks; tests assert on the returned error instead.
type MockTransactionManager struct {
	mu    sync.Mutex
	calls int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *MockTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Event Publisher Mock ---

type MockPublisher struct {
	mu      sync.Mutex
	records []*webhook.AuditRecord

	PublishFunc func(ctx context.Context, rec *webhook.AuditRecord) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Name() string { return "mock" }

func (m *MockPublisher) Publish(ctx context.Context, rec *webhook.AuditRecord) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MockPublisher) Records() []*webhook.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*webhook.AuditRecord(nil), m.records...)
}
