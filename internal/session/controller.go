package session

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/internal/cart"
	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/internal/checkout"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/materialhub-backend/pkg/errors"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

type catalogReader interface {
	Snapshot(ctx context.Context) ([]catalog.CatalogItem, error)
	Lookup(ctx context.Context, key string) (catalog.CatalogItem, bool, error)
}

type cartStore interface {
	Load(ctx context.Context, operatorID string) (*cart.Manager, error)
	Save(ctx context.Context, operatorID string, m *cart.Manager) error
}

type placer interface {
	PlaceOrder(ctx context.Context, input checkout.PlaceOrderInput) (*checkout.Placement, error)
	PlaceVendorGroup(ctx context.Context, input checkout.PlaceVendorGroupInput) (*checkout.Placement, error)
}

// CartView is the cart as returned to the operator.
type CartView struct {
	Lines         []cart.Line         `json:"lines"`
	Groups        []cart.VendorGroup  `json:"groups"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}

func viewOf(m *cart.Manager) *CartView {
	return &CartView{
		Lines:         m.Lines(),
		Groups:        m.GroupByVendor(),
		GrandTotal:    m.GrandTotal(),
		PaymentStatus: m.PaymentStatus(),
	}
}

// Controller owns each operator's session: the draft cart, the payment
// selection and the checkout calls made against them. Requests of one
// operator are serialized.
type Controller struct {
	catalog catalogReader
	carts   cartStore
	engine  placer
	logg    *logger.Logger

	mu    sync.Mutex
	locks map[string]*operatorLock
}

// operatorLock is dropped from the map once no request holds or waits on it.
type operatorLock struct {
	mu   sync.Mutex
	refs int
}

func NewController(catalogReader catalogReader, carts cartStore, engine placer, logg *logger.Logger) (*Controller, error) {
	if catalogReader == nil {
		return nil, errors.New("catalog reader required")
	}
	if carts == nil {
		return nil, errors.New("cart store required")
	}
	if engine == nil {
		return nil, errors.New("checkout engine required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Controller{
		catalog: catalogReader,
		carts:   carts,
		engine:  engine,
		logg:    logg,
		locks:   map[string]*operatorLock{},
	}, nil
}

// Catalog filters and sorts the current catalog snapshot.
func (c *Controller) Catalog(ctx context.Context, filter catalog.Filter) ([]catalog.CatalogItem, error) {
	items, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")
	}
	return catalog.Query(items, filter), nil
}

// Categories lists the categories of the unfiltered catalog snapshot.
func (c *Controller) Categories(ctx context.Context) ([]string, error) {
	items, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")
	}
	return catalog.Categories(items), nil
}

func (c *Controller) Cart(ctx context.Context, operatorID string) (*CartView, error) {
	var view *CartView
	err := c.withCart(ctx, operatorID, false, func(m *cart.Manager) error {
		view = viewOf(m)
		return nil
	})
	return view, err
}

// AddLine adds qty of a vendor's offer to the cart at the current catalog price.
func (c *Controller) AddLine(ctx context.Context, operatorID, catalogKey, vendorID string, qty decimal.Decimal) (*CartView, error) {
	item, ok, err := c.catalog.Lookup(ctx, catalogKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unavailable")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}

	var view *CartView
	err = c.withCart(ctx, operatorID, true, func(m *cart.Manager) error {
		if _, err := m.AddOrIncrement(item, vendorID, qty); err != nil {
			return err
		}
		view = viewOf(m)
		return nil
	})
	return view, err
}

func (c *Controller) UpdateLine(ctx context.Context, operatorID, lineID string, qty decimal.Decimal) (*CartView, error) {
	var view *CartView
	err := c.withCart(ctx, operatorID, true, func(m *cart.Manager) error {
		if err := m.UpdateQuantity(lineID, qty); err != nil {
			return err
		}
		view = viewOf(m)
		return nil
	})
	return view, err
}

func (c *Controller) RemoveLine(ctx context.Context, operatorID, lineID string) (*CartView, error) {
	var view *CartView
	err := c.withCart(ctx, operatorID, true, func(m *cart.Manager) error {
		if !m.RemoveLine(lineID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		view = viewOf(m)
		return nil
	})
	return view, err
}

func (c *Controller) SetPaymentStatus(ctx context.Context, operatorID string, status enums.PaymentStatus) (*CartView, error) {
	var view *CartView
	err := c.withCart(ctx, operatorID, true, func(m *cart.Manager) error {
		if err := m.SetPaymentStatus(status); err != nil {
			return err
		}
		view = viewOf(m)
		return nil
	})
	return view, err
}

// CheckoutLine places the order for one cart line.
func (c *Controller) CheckoutLine(ctx context.Context, operatorID, lineID, clientID string) (*checkout.Placement, error) {
	var placement *checkout.Placement
	err := c.withCart(ctx, operatorID, false, func(m *cart.Manager) error {
		line, ok := m.Line(lineID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		placed, err := c.engine.PlaceOrder(ctx, checkout.PlaceOrderInput{
			ActorID:       operatorID,
			ClientID:      clientID,
			Line:          line,
			PaymentStatus: m.PaymentStatus(),
			Cart:          m,
		})
		if err != nil {
			return err
		}
		placement = placed
		c.saveAfterCheckout(ctx, operatorID, m, placed)
		return nil
	})
	return placement, err
}

// CheckoutVendor places one order per cart line of the vendor.
func (c *Controller) CheckoutVendor(ctx context.Context, operatorID, vendorID, clientID string) (*checkout.Placement, error) {
	var placement *checkout.Placement
	err := c.withCart(ctx, operatorID, false, func(m *cart.Manager) error {
		lines := m.VendorLines(vendorID)
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no cart lines for vendor")
		}
		placed, err := c.engine.PlaceVendorGroup(ctx, checkout.PlaceVendorGroupInput{
			ActorID:       operatorID,
			ClientID:      clientID,
			VendorID:      vendorID,
			Lines:         lines,
			PaymentStatus: m.PaymentStatus(),
			Cart:          m,
		})
		if err != nil {
			return err
		}
		placement = placed
		c.saveAfterCheckout(ctx, operatorID, m, placed)
		return nil
	})
	return placement, err
}

// withCart loads the operator's cart, runs fn and saves the cart when fn
// succeeds and save is set. A failing fn leaves the stored cart untouched.
func (c *Controller) withCart(ctx context.Context, operatorID string, save bool, fn func(m *cart.Manager) error) error {
	if operatorID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity required")
	}
	unlock := c.lock(operatorID)
	defer unlock()

	m, err := c.carts.Load(ctx, operatorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart unavailable")
	}
	if err := fn(m); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := c.carts.Save(ctx, operatorID, m); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart could not be saved")
	}
	return nil
}

// saveAfterCheckout persists the committed cart. The orders are already
// placed, so a failure here is logged rather than returned.
func (c *Controller) saveAfterCheckout(ctx context.Context, operatorID string, m *cart.Manager, placement *checkout.Placement) {
	if err := c.carts.Save(ctx, operatorID, m); err != nil {
		logCtx := c.logg.WithOperatorID(ctx, operatorID)
		logCtx = c.logg.WithField(logCtx, "order_ids", placement.OrderIDs())
		c.logg.Error(logCtx, "cart not saved after checkout", err)
	}
}

func (c *Controller) lock(operatorID string) func() {
	c.mu.Lock()
	l, ok := c.locks[operatorID]
	if !ok {
		l = &operatorLock{}
		c.locks[operatorID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, operatorID)
		}
		c.mu.Unlock()
	}
}
