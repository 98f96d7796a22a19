package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/materialhub-backend/internal/cart"
	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/internal/notifications"
	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

type memoryOrders struct {
	rows      map[string]models.Order
	createErr error
	cancelErr error
	// drop makes Create report success without storing the row.
	drop bool
}

func (m *memoryOrders) Create(ctx context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if !m.drop {
		m.rows[order.ID] = *order
	}
	return nil
}

func (m *memoryOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memoryOrders) CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if m.cancelErr != nil {
		return 0, m.cancelErr
	}
	var n int64
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok || row.OrderStatus != enums.OrderStatusPlaced {
			continue
		}
		row.OrderStatus = enums.OrderStatusCancelled
		row.UpdatedAt = at
		m.rows[id] = row
		n++
	}
	return n, nil
}

func (m *memoryOrders) placed() int {
	n := 0
	for _, row := range m.rows {
		if row.OrderStatus == enums.OrderStatusPlaced {
			n++
		}
	}
	return n
}

type memoryFeed struct {
	rows      map[string]models.OrderFeedRecord
	createErr error
	drop      bool
	// failAfter rejects writes once this many rows were stored; zero disables it.
	failAfter int
}

func (m *memoryFeed) Create(ctx context.Context, record *models.OrderFeedRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.failAfter > 0 && len(m.rows) >= m.failAfter {
		return errors.New("quota exceeded")
	}
	if !m.drop {
		m.rows[record.ID] = *record
	}
	return nil
}

func (m *memoryFeed) FindByID(ctx context.Context, id string) (*models.OrderFeedRecord, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memoryFeed) CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok || row.OrderStatus != enums.OrderStatusPlaced {
			continue
		}
		row.OrderStatus = enums.OrderStatusCancelled
		row.UpdatedAt = at
		m.rows[id] = row
		n++
	}
	return n, nil
}

type stubDirectory struct {
	calls int
}

func (s *stubDirectory) FindVendor(ctx context.Context, id string) (*models.Vendor, error) {
	s.calls++
	if id == "Y" {
		return &models.Vendor{ID: "Y", Name: "Yadav Cement", Phone: "9845012345"}, nil
	}
	if id == "X" {
		return &models.Vendor{ID: "X", Name: "Xavier Steel"}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDirectory) FindClientSite(ctx context.Context, id string) (*models.ClientSite, error) {
	s.calls++
	if id == "site-1" {
		return &models.ClientSite{ID: id, ProjectName: "Lakeview Villas"}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingNotifier struct {
	batches    []notifications.OrderBatch
	persisted  []models.Notification
	persistErr error
	dispatcher *notifications.Dispatcher
}

func (r *recordingNotifier) Build(batch notifications.OrderBatch) []models.Notification {
	r.batches = append(r.batches, batch)
	return r.dispatcher.Build(batch)
}

func (r *recordingNotifier) Persist(ctx context.Context, n []models.Notification) error {
	if r.persistErr != nil {
		return r.persistErr
	}
	r.persisted = append(r.persisted, n...)
	return nil
}

type noopRepo struct{}

func (noopRepo) WithTx(tx *gorm.DB) notifications.Repository { return noopRepo{} }
func (noopRepo) CreateBatch(ctx context.Context, n []models.Notification) error {
	return nil
}

type recordingMessenger struct {
	sent []notifications.OutboundMessage
	err  error
}

func (m *recordingMessenger) Send(ctx context.Context, msg notifications.OutboundMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) NewOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("ord_1772600000000_%08x", s.n)
}

type harness struct {
	engine    *Engine
	orders    *memoryOrders
	feed      *memoryFeed
	directory *stubDirectory
	notifier  *recordingNotifier
	messenger *recordingMessenger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dispatcher, err := notifications.NewDispatcher(noopRepo{})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	h := &harness{
		orders:    &memoryOrders{rows: map[string]models.Order{}},
		feed:      &memoryFeed{rows: map[string]models.OrderFeedRecord{}},
		directory: &stubDirectory{},
		notifier:  &recordingNotifier{dispatcher: dispatcher},
		messenger: &recordingMessenger{},
	}
	engine, err := NewEngine(EngineParams{
		Orders:    h.orders,
		Feed:      h.feed,
		Directory: h.directory,
		Notifier:  h.notifier,
		Messenger: h.messenger,
		IDs:       &sequenceIDs{},
		Logger:    logger.New(logger.Options{Output: io.Discard}),
		Now:       func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	h.engine = engine
	return h
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testCart(t *testing.T) *cart.Manager {
	t.Helper()
	items := catalog.Build([]catalog.VendorRecord{
		{ID: "X", Name: "Xavier Steel", Materials: []catalog.MaterialEntry{
			{Category: "Steel", Name: "TMT Steel", UnitPrice: dec("65"), Unit: "kg"},
		}},
		{ID: "Y", Name: "Yadav Cement", Materials: []catalog.MaterialEntry{
			{Category: "Cement", Name: "Cement", UnitPrice: dec("330"), Unit: "bag"},
			{Category: "Aggregates", Name: "River Sand", UnitPrice: dec("45"), Unit: "cft"},
			{Category: "Bricks", Name: "Red Brick", UnitPrice: dec("8.5"), Unit: "piece"},
		}},
	})
	m := cart.NewManager()
	quantities := map[string]string{"TMT Steel": "2", "Cement": "10", "River Sand": "100", "Red Brick": "500"}
	for _, item := range items {
		if _, err := m.AddOrIncrement(item, item.Vendors[0].VendorID, dec(quantities[item.Name])); err != nil {
			t.Fatalf("add %s: %v", item.Name, err)
		}
	}
	return m
}

func lineFor(t *testing.T, m *cart.Manager, material string) cart.Line {
	t.Helper()
	for _, line := range m.Lines() {
		if line.MaterialName == material {
			return line
		}
	}
	t.Fatalf("no line for %s", material)
	return cart.Line{}
}

func TestEngine_PlaceOrderWritesBothRecords(t *testing.T) {
	h := newHarness(t)
	m := testCart(t)
	_ = m.SetPaymentStatus(enums.PaymentStatusPartial)
	line := lineFor(t, m, "Cement")

	placement, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{
		ActorID:       "op-1",
		ClientID:      "site-1",
		Line:          line,
		PaymentStatus: m.PaymentStatus(),
		Cart:          m,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if len(h.orders.rows) != 1 || len(h.feed.rows) != 1 {
		t.Fatalf("expected one order and one feed record, got %d and %d", len(h.orders.rows), len(h.feed.rows))
	}
	id := placement.Orders[0].OrderID
	order, ok := h.orders.rows[id]
	if !ok {
		t.Fatalf("order %s not stored", id)
	}
	feed, ok := h.feed.rows[id]
	if !ok {
		t.Fatalf("feed record %s not stored", id)
	}
	want := dec("3300")
	if !order.TotalCost.Equal(want) || !feed.TotalCost.Equal(want) {
		t.Fatalf("expected total 3300, got order=%s feed=%s", order.TotalCost, feed.TotalCost)
	}
	if order.PaymentStatus != enums.PaymentStatusPartial || order.OrderStatus != enums.OrderStatusPlaced {
		t.Fatalf("unexpected statuses %s/%s", order.PaymentStatus, order.OrderStatus)
	}
	if feed.ProjectName != "Lakeview Villas" || feed.VendorName != "Yadav Cement" || feed.Summary == "" {
		t.Fatalf("unexpected feed record %+v", feed)
	}

	if _, ok := m.Line(line.ID); ok {
		t.Fatal("expected cart line removed after verified placement")
	}
	if m.Len() != 3 {
		t.Fatalf("expected other lines kept, got %d", m.Len())
	}
	if m.PaymentStatus() != enums.DefaultPaymentStatus {
		t.Fatalf("expected payment status reset, got %s", m.PaymentStatus())
	}

	if len(h.notifier.persisted) != 2 {
		t.Fatalf("expected vendor and admin notifications, got %d", len(h.notifier.persisted))
	}
	if len(h.messenger.sent) != 1 || h.messenger.sent[0].Phone != "9845012345" {
		t.Fatalf("unexpected vendor messages %+v", h.messenger.sent)
	}
	if placement.VendorMessage == "" || !placement.Subtotal.Equal(want) {
		t.Fatalf("unexpected placement %+v", placement)
	}
}

func TestEngine_ValidationHappensBeforeIO(t *testing.T) {
	m := testCart(t)
	line := lineFor(t, m, "Cement")
	zero := line
	zero.Quantity = decimal.Zero
	noVendor := line
	noVendor.VendorID = ""

	cases := []struct {
		name  string
		input PlaceOrderInput
		code  pkgerrors.Code
		field string
	}{
		{name: "actor", input: PlaceOrderInput{ClientID: "site-1", Line: line}, code: pkgerrors.CodeUnauthorized},
		{name: "client", input: PlaceOrderInput{ActorID: "op-1", Line: line}, code: pkgerrors.CodeValidation, field: "client_id"},
		{name: "vendor", input: PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: noVendor}, code: pkgerrors.CodeValidation, field: "vendor_id"},
		{name: "quantity", input: PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: zero}, code: pkgerrors.CodeValidation, field: "quantity"},
		{name: "payment", input: PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, PaymentStatus: "bogus"}, code: pkgerrors.CodeValidation, field: "payment_status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.engine.PlaceOrder(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if tc.field != "" {
				details, _ := typed.Details().(map[string]any)
				if details["field"] != tc.field {
					t.Fatalf("expected field %s, got %v", tc.field, typed.Details())
				}
			}
			if h.directory.calls != 0 || len(h.orders.rows) != 0 {
				t.Fatal("expected no I/O before validation passes")
			}
		})
	}
}

func TestEngine_UnknownClientOrVendor(t *testing.T) {
	h := newHarness(t)
	m := testCart(t)
	line := lineFor(t, m, "Cement")

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "nope", Line: line, Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for client, got %v", err)
	}

	line.VendorID = "Z"
	_, err = h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for vendor, got %v", err)
	}
	if len(h.orders.rows) != 0 {
		t.Fatal("expected no writes")
	}
}

func TestEngine_FeedRowMissingIsVerificationFailure(t *testing.T) {
	h := newHarness(t)
	h.feed.drop = true
	m := testCart(t)
	line := lineFor(t, m, "Cement")

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeVerificationFailed {
		t.Fatalf("expected verification failure, got %v", err)
	}
	details, _ := typed.Details().(map[string]any)
	missing, _ := details["missing"].([]string)
	if len(missing) != 1 || missing[0] != "order_feed" {
		t.Fatalf("unexpected missing records %v", details["missing"])
	}
	if _, ok := m.Line(line.ID); !ok {
		t.Fatal("cart line must be kept after verification failure")
	}
	if len(h.notifier.batches) != 0 || len(h.messenger.sent) != 0 {
		t.Fatal("expected no fan-out for an unverified order")
	}
}

func TestEngine_FeedWriteRejectedAfterOrderIsVerificationFailure(t *testing.T) {
	h := newHarness(t)
	h.feed.createErr = errors.New("permission denied")
	m := testCart(t)
	line := lineFor(t, m, "Cement")

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodeVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if len(h.orders.rows) != 1 {
		t.Fatalf("expected the unconfirmed order row to be kept, got %d", len(h.orders.rows))
	}
	if h.orders.placed() != 0 {
		t.Fatal("expected the unconfirmed order to be cancelled")
	}
	if _, ok := m.Line(line.ID); !ok {
		t.Fatal("cart line must be kept")
	}
}

func TestEngine_CancelFailureStillReportsVerificationFailure(t *testing.T) {
	h := newHarness(t)
	h.feed.createErr = errors.New("permission denied")
	h.orders.cancelErr = errors.New("connection reset")
	m := testCart(t)
	line := lineFor(t, m, "Cement")

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodeVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if h.orders.placed() != 1 {
		t.Fatal("expected the order left placed for the reconciliation sweep")
	}
	if _, ok := m.Line(line.ID); !ok {
		t.Fatal("cart line must be kept")
	}
}

func TestEngine_OrderWriteRejectedIsWriteFailure(t *testing.T) {
	h := newHarness(t)
	h.orders.createErr = errors.New("connection reset")
	m := testCart(t)
	line := lineFor(t, m, "Cement")

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodePersistenceWrite) {
		t.Fatalf("expected write failure, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]any)
	if _, ok := details["duplicate_id"]; ok {
		t.Fatalf("unexpected duplicate flag %v", details)
	}
	if len(h.feed.rows) != 0 {
		t.Fatal("feed must not be written after the order write fails")
	}
	if m.Len() != 4 {
		t.Fatalf("cart must be unchanged, got %d lines", m.Len())
	}
}

func TestEngine_DuplicateOrderIDLeavesExistingRow(t *testing.T) {
	h := newHarness(t)
	existing := models.Order{ID: "ord_1772600000000_00000001", OrderStatus: enums.OrderStatusPlaced}
	h.orders.rows[existing.ID] = existing
	h.orders.createErr = errors.New("UNIQUE constraint failed: orders.id")
	m := testCart(t)

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: lineFor(t, m, "Cement"), Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodePersistenceWrite) {
		t.Fatalf("expected write failure, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]any)
	if details["duplicate_id"] != true {
		t.Fatalf("expected duplicate flag, got %v", details)
	}
	if h.orders.rows[existing.ID].OrderStatus != enums.OrderStatusPlaced {
		t.Fatal("existing order must not be cancelled")
	}
}

func TestEngine_OrderRowMissingIsVerificationFailure(t *testing.T) {
	h := newHarness(t)
	h.orders.drop = true
	m := testCart(t)

	_, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: lineFor(t, m, "Cement"), Cart: m})
	if !pkgerrors.IsCode(err, pkgerrors.CodeVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
}

func TestEngine_PlaceVendorGroup(t *testing.T) {
	h := newHarness(t)
	m := testCart(t)
	lines := m.VendorLines("Y")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for vendor Y, got %d", len(lines))
	}

	placement, err := h.engine.PlaceVendorGroup(context.Background(), PlaceVendorGroupInput{
		ActorID:  "op-1",
		ClientID: "site-1",
		VendorID: "Y",
		Lines:    lines,
		Cart:     m,
	})
	if err != nil {
		t.Fatalf("place vendor group: %v", err)
	}

	ids := map[string]struct{}{}
	for _, o := range placement.Orders {
		ids[o.OrderID] = struct{}{}
	}
	if len(ids) != 3 || len(h.orders.rows) != 3 || len(h.feed.rows) != 3 {
		t.Fatalf("expected 3 ids/orders/feed records, got %d/%d/%d", len(ids), len(h.orders.rows), len(h.feed.rows))
	}
	for id := range ids {
		if _, ok := h.feed.rows[id]; !ok {
			t.Fatalf("feed record missing for %s", id)
		}
	}
	// 10*330 + 100*45 + 500*8.5
	if !placement.Subtotal.Equal(dec("12050")) {
		t.Fatalf("expected subtotal 12050, got %s", placement.Subtotal)
	}

	if len(h.notifier.batches) != 1 {
		t.Fatalf("expected one combined notification batch, got %d", len(h.notifier.batches))
	}
	vendorNotifications := 0
	for _, n := range h.notifier.persisted {
		if n.RecipientRole == enums.RecipientRoleVendor {
			vendorNotifications++
			if len(n.Data.Materials) != 3 {
				t.Fatalf("expected 3 materials in combined notification, got %d", len(n.Data.Materials))
			}
		}
	}
	if vendorNotifications != 1 {
		t.Fatalf("expected exactly one vendor notification, got %d", vendorNotifications)
	}
	if len(h.messenger.sent) != 1 {
		t.Fatalf("expected one vendor message, got %d", len(h.messenger.sent))
	}
	if m.Len() != 1 || m.Lines()[0].VendorID != "X" {
		t.Fatalf("expected only vendor X line left, got %+v", m.Lines())
	}
}

func TestEngine_VendorGroupPartialFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	h.feed.failAfter = 1
	m := testCart(t)

	_, err := h.engine.PlaceVendorGroup(context.Background(), PlaceVendorGroupInput{
		ActorID:  "op-1",
		ClientID: "site-1",
		VendorID: "Y",
		Lines:    m.VendorLines("Y"),
		Cart:     m,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if len(h.orders.rows) != 2 || len(h.feed.rows) != 1 {
		t.Fatalf("expected writes to stop at the failing line, got %d orders %d feed", len(h.orders.rows), len(h.feed.rows))
	}
	if h.orders.placed() != 0 {
		t.Fatal("expected every order of the aborted group to be cancelled")
	}
	for id, row := range h.feed.rows {
		if row.OrderStatus != enums.OrderStatusCancelled {
			t.Fatalf("expected feed record %s cancelled, got %s", id, row.OrderStatus)
		}
	}
	if m.Len() != 4 {
		t.Fatalf("cart must be unchanged, got %d lines", m.Len())
	}
	if len(h.notifier.batches) != 0 {
		t.Fatal("expected no notification for an aborted group")
	}
}

func TestEngine_VendorGroupRejectsForeignLine(t *testing.T) {
	h := newHarness(t)
	m := testCart(t)
	lines := append(m.VendorLines("Y"), lineFor(t, m, "TMT Steel"))

	_, err := h.engine.PlaceVendorGroup(context.Background(), PlaceVendorGroupInput{
		ActorID: "op-1", ClientID: "site-1", VendorID: "Y", Lines: lines, Cart: m,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = h.engine.PlaceVendorGroup(context.Background(), PlaceVendorGroupInput{
		ActorID: "op-1", ClientID: "site-1", VendorID: "Y", Cart: m,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty group, got %v", err)
	}
}

func TestEngine_FanOutFailuresAreSwallowed(t *testing.T) {
	h := newHarness(t)
	h.messenger.err = errors.New("no whatsapp")
	h.notifier.persistErr = errors.New("notifications table locked")
	m := testCart(t)
	line := lineFor(t, m, "TMT Steel")

	placement, err := h.engine.PlaceOrder(context.Background(), PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m})
	if err != nil {
		t.Fatalf("expected success despite fan-out failures, got %v", err)
	}
	if len(placement.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(placement.Orders))
	}
	if _, ok := m.Line(line.ID); ok {
		t.Fatal("expected cart line removed")
	}
}

func TestEngine_RetryProducesNewID(t *testing.T) {
	h := newHarness(t)
	h.feed.drop = true
	m := testCart(t)
	line := lineFor(t, m, "Cement")
	input := PlaceOrderInput{ActorID: "op-1", ClientID: "site-1", Line: line, Cart: m}

	if _, err := h.engine.PlaceOrder(context.Background(), input); err == nil {
		t.Fatal("expected first attempt to fail")
	}
	h.feed.drop = false
	placement, err := h.engine.PlaceOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(h.orders.rows) != 2 {
		t.Fatalf("expected the cancelled attempt plus the retried order, got %d", len(h.orders.rows))
	}
	if h.orders.placed() != 1 {
		t.Fatalf("expected exactly one placed order, got %d", h.orders.placed())
	}
	if _, ok := h.feed.rows[placement.Orders[0].OrderID]; !ok {
		t.Fatal("expected feed record for retried order")
	}
}

func TestTimestampIDGenerator(t *testing.T) {
	g := NewTimestampIDGenerator()
	g.now = func() time.Time { return time.UnixMilli(1772600000123) }

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		id := g.NewOrderID()
		if len(id) != len("ord_1772600000123_")+8 {
			t.Fatalf("unexpected id %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
