package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/internal/cart"
	"github.com/angelmondragon/materialhub-backend/internal/notifications"
	"github.com/angelmondragon/materialhub-backend/internal/orders"
	"github.com/angelmondragon/materialhub-backend/pkg/db"
	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
	"github.com/angelmondragon/materialhub-backend/pkg/metrics"
)

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error)
}

type feedStore interface {
	Create(ctx context.Context, record *models.OrderFeedRecord) error
	FindByID(ctx context.Context, id string) (*models.OrderFeedRecord, error)
	CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error)
}

type directoryReader interface {
	FindVendor(ctx context.Context, id string) (*models.Vendor, error)
	FindClientSite(ctx context.Context, id string) (*models.ClientSite, error)
}

type notifier interface {
	Build(batch notifications.OrderBatch) []models.Notification
	Persist(ctx context.Context, notifications []models.Notification) error
}

// Engine places orders. Each line is written to the order store, then to
// the feed store, and both are read back before the order counts as placed.
type Engine struct {
	orders    orderStore
	feed      feedStore
	directory directoryReader
	notifier  notifier
	messenger notifications.Messenger
	ids       IDGenerator
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// EngineParams wires the engine collaborators.
type EngineParams struct {
	Orders    orderStore
	Feed      feedStore
	Directory directoryReader
	Notifier  notifier
	Messenger notifications.Messenger
	IDs       IDGenerator
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

func NewEngine(params EngineParams) (*Engine, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("order feed repository required")
	}
	if params.Directory == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if params.Messenger == nil {
		return nil, fmt.Errorf("messenger required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	ids := params.IDs
	if ids == nil {
		ids = NewTimestampIDGenerator()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		orders:    params.Orders,
		feed:      params.Feed,
		directory: params.Directory,
		notifier:  params.Notifier,
		messenger: params.Messenger,
		ids:       ids,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       now,
	}, nil
}

// PlaceOrder submits a single cart line.
func (e *Engine) PlaceOrder(ctx context.Context, input PlaceOrderInput) (placement *Placement, err error) {
	start := e.now()
	defer func() { e.observe(modeSingle, start, err) }()

	status, err := validate(input.ActorID, input.ClientID, input.Line.VendorID, input.PaymentStatus, []cart.Line{input.Line})
	if err != nil {
		return nil, err
	}
	ctx = e.logg.WithOperatorID(ctx, input.ActorID)
	ctx = e.logg.WithClientID(ctx, input.ClientID)
	ctx = e.logg.WithVendorID(ctx, input.Line.VendorID)

	return e.place(ctx, modeSingle, input.ClientID, input.Line.VendorID, status, []cart.Line{input.Line}, input.Cart)
}

// PlaceVendorGroup submits every line of one vendor. Lines are written one
// after another in cart order and share one combined notification.
func (e *Engine) PlaceVendorGroup(ctx context.Context, input PlaceVendorGroupInput) (placement *Placement, err error) {
	start := e.now()
	defer func() { e.observe(modeVendorGroup, start, err) }()

	status, err := validate(input.ActorID, input.ClientID, input.VendorID, input.PaymentStatus, input.Lines)
	if err != nil {
		return nil, err
	}
	ctx = e.logg.WithOperatorID(ctx, input.ActorID)
	ctx = e.logg.WithClientID(ctx, input.ClientID)
	ctx = e.logg.WithVendorID(ctx, input.VendorID)

	return e.place(ctx, modeVendorGroup, input.ClientID, input.VendorID, status, input.Lines, input.Cart)
}

func (e *Engine) place(
	ctx context.Context,
	mode, clientID, vendorID string,
	status enums.PaymentStatus,
	lines []cart.Line,
	remover LineRemover,
) (*Placement, error) {
	site, vendor, err := e.lookup(ctx, clientID, vendorID)
	if err != nil {
		return nil, err
	}

	placedAt := e.now().UTC()
	vendorName := vendor.Name
	if vendorName == "" {
		vendorName = lines[0].VendorName
	}
	fc := orders.FeedContext{ProjectName: site.ProjectName, VendorName: vendorName}

	placement := &Placement{
		VendorID:      vendorID,
		VendorName:    vendorName,
		ClientID:      clientID,
		ProjectName:   site.ProjectName,
		PaymentStatus: status,
		Subtotal:      decimal.Zero,
		PlacedAt:      placedAt,
	}
	for _, line := range lines {
		order := models.Order{
			ID:            e.ids.NewOrderID(),
			ClientID:      clientID,
			VendorID:      vendorID,
			MaterialName:  line.MaterialName,
			Category:      line.Category,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
			UnitPrice:     line.UnitPrice,
			TotalCost:     line.Quantity.Mul(line.UnitPrice),
			PaymentStatus: status,
			OrderStatus:   enums.OrderStatusPlaced,
			VendorStatus:  enums.VendorStatusPending,
			CreatedAt:     placedAt,
			UpdatedAt:     placedAt,
		}
		lineCtx := e.logg.WithOrderID(ctx, order.ID)

		if err := e.writeAndVerify(lineCtx, order, fc); err != nil {
			e.logg.Error(lineCtx, "order placement failed", err)
			abandoned := placement.OrderIDs()
			if len(abandoned) > 0 {
				e.logg.Error(e.logg.WithField(ctx, "verified_order_ids", abandoned),
					"vendor group aborted after verified orders; cancelling them", err)
			}
			if pkgerrors.IsCode(err, pkgerrors.CodeVerificationFailed) {
				abandoned = append(abandoned, order.ID)
			}
			e.abandon(ctx, abandoned)
			return nil, err
		}
		e.logg.Info(lineCtx, "order verified")

		placement.Orders = append(placement.Orders, PlacedOrder{
			OrderID:      order.ID,
			LineID:       line.ID,
			MaterialName: order.MaterialName,
			Category:     order.Category,
			Quantity:     order.Quantity,
			Unit:         order.Unit,
			UnitPrice:    order.UnitPrice,
			TotalCost:    order.TotalCost,
		})
		placement.Subtotal = placement.Subtotal.Add(order.TotalCost)
	}

	batch := notifications.OrderBatch{
		VendorID:    vendorID,
		VendorName:  vendorName,
		VendorPhone: vendor.Phone,
		ClientID:    clientID,
		ProjectName: site.ProjectName,
		PlacedAt:    placedAt,
		Lines:       make([]notifications.OrderLine, 0, len(placement.Orders)),
	}
	for _, o := range placement.Orders {
		batch.Lines = append(batch.Lines, notifications.OrderLine{
			OrderID:      o.OrderID,
			MaterialName: o.MaterialName,
			Category:     o.Category,
			Quantity:     o.Quantity,
			Unit:         o.Unit,
			TotalCost:    o.TotalCost,
		})
	}
	placement.VendorMessage = notifications.VendorMessage(batch)

	e.notify(ctx, batch)
	e.dispatch(ctx, batch, placement.VendorMessage)

	if remover != nil {
		for _, o := range placement.Orders {
			remover.RemoveLine(o.LineID)
		}
		remover.ResetPaymentStatus()
	}

	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"mode":      mode,
		"order_ids": placement.OrderIDs(),
		"subtotal":  placement.Subtotal.StringFixed(2),
	}), "checkout completed")
	return placement, nil
}

func validate(actorID, clientID, vendorID string, status enums.PaymentStatus, lines []cart.Line) (enums.PaymentStatus, error) {
	if strings.TrimSpace(actorID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity required")
	}
	if strings.TrimSpace(clientID) == "" {
		return "", invalidField("client_id", "client site is required")
	}
	if strings.TrimSpace(vendorID) == "" {
		return "", invalidField("vendor_id", "vendor is required")
	}
	if len(lines) == 0 {
		return "", invalidField("lines", "no cart lines for vendor")
	}
	for _, line := range lines {
		if line.VendorID != vendorID {
			return "", invalidField("vendor_id", "cart line belongs to a different vendor")
		}
		if !line.Quantity.IsPositive() {
			return "", invalidField("quantity", "quantity must be greater than zero")
		}
	}
	if status == "" {
		status = enums.DefaultPaymentStatus
	}
	if !status.IsValid() {
		return "", invalidField("payment_status", "invalid payment status")
	}
	return status, nil
}

func invalidField(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func (e *Engine) lookup(ctx context.Context, clientID, vendorID string) (*models.ClientSite, *models.Vendor, error) {
	site, err := e.directory.FindClientSite(ctx, clientID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "client site not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client site")
	}
	vendor, err := e.directory.FindVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return site, vendor, nil
}

// writeAndVerify writes the order, then its feed record, then reads both
// back. Once the order row exists any later failure leaves a half-written
// order and is reported as a verification failure.
func (e *Engine) writeAndVerify(ctx context.Context, order models.Order, fc orders.FeedContext) error {
	if err := e.orders.Create(ctx, &order); err != nil {
		details := map[string]any{"order_id": order.ID, "record": "order"}
		if db.IsUniqueViolation(err, "") {
			// The id belongs to another attempt; that row is left alone.
			details["duplicate_id"] = true
		}
		return pkgerrors.Wrap(pkgerrors.CodePersistenceWrite, err, "order could not be written").
			WithDetails(details)
	}

	record := orders.NewFeedRecord(order, fc)
	if err := e.feed.Create(ctx, &record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeVerificationFailed, err, "order feed record could not be written").
			WithDetails(map[string]any{"order_id": order.ID, "missing": []string{"order_feed"}})
	}

	missing := make([]string, 0, 2)
	var readErr error
	if _, err := e.orders.FindByID(ctx, order.ID); err != nil {
		missing = append(missing, "order")
		if !db.IsNotFound(err) {
			readErr = errors.Join(readErr, err)
		}
	}
	if _, err := e.feed.FindByID(ctx, order.ID); err != nil {
		missing = append(missing, "order_feed")
		if !db.IsNotFound(err) {
			readErr = errors.Join(readErr, err)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.Wrap(pkgerrors.CodeVerificationFailed, readErr, "order could not be confirmed").
			WithDetails(map[string]any{"order_id": order.ID, "missing": missing})
	}
	return nil
}

// abandon cancels the orders of a checkout that did not complete. Rows are
// kept. The feed side is cancelled first so that an interrupted call leaves
// a status drift the reconciliation sweep can finish.
func (e *Engine) abandon(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	logCtx := e.logg.WithField(ctx, "order_ids", ids)
	at := e.now().UTC()
	var failed bool
	if _, err := e.feed.CancelPlaced(ctx, ids, at); err != nil {
		failed = true
		e.logg.Error(logCtx, "abandoned order feed records could not be cancelled", err)
	}
	if _, err := e.orders.CancelPlaced(ctx, ids, at); err != nil {
		failed = true
		e.logg.Error(logCtx, "abandoned orders could not be cancelled", err)
	}
	if !failed {
		e.logg.Warn(logCtx, "abandoned orders cancelled")
	}
}

func (e *Engine) notify(ctx context.Context, batch notifications.OrderBatch) {
	if err := e.notifier.Persist(ctx, e.notifier.Build(batch)); err != nil {
		e.metrics.IncDispatchFailure("notification")
		e.logg.Error(ctx, "order notifications not stored",
			pkgerrors.Wrap(pkgerrors.CodeDispatchFailed, err, "persist notifications"))
	}
}

func (e *Engine) dispatch(ctx context.Context, batch notifications.OrderBatch, text string) {
	msg := notifications.OutboundMessage{VendorID: batch.VendorID, Phone: batch.VendorPhone, Text: text}
	if err := e.messenger.Send(ctx, msg); err != nil {
		e.metrics.IncDispatchFailure("vendor_message")
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "vendor message not dispatched")
	}
}

func (e *Engine) observe(mode string, start time.Time, err error) {
	e.metrics.ObserveOrder(mode, outcomeFor(err), e.now().Sub(start))
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomePlaced
	}
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeVerificationFailed:
		return metrics.OutcomeVerificationFailed
	case pkgerrors.CodePersistenceWrite, pkgerrors.CodeDependency, pkgerrors.CodeInternal:
		return metrics.OutcomeWriteFailed
	default:
		return metrics.OutcomeInvalid
	}
}
