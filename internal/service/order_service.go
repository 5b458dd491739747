package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/qrtable/restaurant-pos/internal/access"
	"github.com/qrtable/restaurant-pos/internal/audit"
	"github.com/qrtable/restaurant-pos/internal/model"
	"github.com/qrtable/restaurant-pos/internal/repository"
)

// Actor identifies the staff member behind a mutating call.  Customer
// calls carry a nil *Actor.
type Actor struct {
	ID   int64
	Role string
}

// RequestMeta carries client metadata into audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// CartLine is one submitted cart entry.  PriceCents is the price the
// customer was quoted; it is copied into the order line verbatim and
// never re-read from the live menu.
type CartLine struct {
	MenuItemID int64             `json:"menu_item_id"`
	Quantity   int64             `json:"quantity"`
	PriceCents int64             `json:"price_cents"`
	Modifiers  map[string]string `json:"modifiers,omitempty"`
}

// CreateOrderResult reports the outcome of an order creation.  Exactly
// one of OrderID and RedirectToTable is set: a redirect means the
// device is locked to another table and no order was created, with no
// error surfaced to the customer.
type CreateOrderResult struct {
	OrderID         string
	RedirectToTable int64
}

// ActiveOrder is an order with its lines and the customer-facing total,
// which excludes voided lines.
type ActiveOrder struct {
	Order              model.Order             `json:"order"`
	Items              []repository.ItemDetail `json:"items"`
	CustomerTotalCents int64                   `json:"customer_total_cents"`
}

// OrderService is the only mutation/query surface the rest of the
// application may call for orders and tables.  All methods are
// request-scoped: the durable table and order rows are the sole shared
// state, and multi-step writes run in a single transaction so a failure
// never leaves a half-created order occupying a table.
type OrderService struct {
	db          *sql.DB
	tables      *repository.TableRepo
	orders      *repository.OrderRepo
	items       *repository.OrderItemRepo
	assignments *repository.AssignmentRepo
	recorder    audit.Recorder
}

// NewOrderService wires the lifecycle engine.  recorder may be
// audit.Noop{} when no broker is configured.
func NewOrderService(db *sql.DB, tables *repository.TableRepo, orders *repository.OrderRepo, items *repository.OrderItemRepo, assignments *repository.AssignmentRepo, recorder audit.Recorder) *OrderService {
	if recorder == nil {
		recorder = audit.Noop{}
	}
	return &OrderService{db: db, tables: tables, orders: orders, items: items, assignments: assignments, recorder: recorder}
}

// CreateOrder places a new order on a table.  Customer calls pass the
// client's validation payload; staff calls pass a nil validation and a
// non-nil actor, bypassing the anti-abuse checks.  The order row, its
// lines and the table occupation commit atomically; the loser of a
// concurrent create on the same table observes the row lock and fails
// with repository.ErrTableOccupied.
func (s *OrderService) CreateOrder(ctx context.Context, tableID int64, lines []CartLine, totalCents int64, actor *Actor, validation *access.ValidationData, meta RequestMeta) (*CreateOrderResult, error) {
	switch res := access.Validate(time.Now(), tableID, validation); res.Decision {
	case access.Reject:
		return nil, ErrAccessExpired
	case access.Redirect:
		return &CreateOrderResult{RedirectToTable: res.RedirectTo}, nil
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, l := range lines {
		if l.MenuItemID <= 0 || l.Quantity <= 0 || l.PriceCents < 0 {
			return nil, ErrInvalidCart
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.tables.EnsureExistsTx(ctx, tx, tableID); err != nil {
		return nil, err
	}
	table, err := s.tables.GetForUpdateTx(ctx, tx, tableID)
	if err != nil {
		return nil, err
	}

	var prevStatus string
	if table.CurrentOrderID != nil {
		prevStatus, err = s.orders.StatusTx(ctx, tx, *table.CurrentOrderID)
		if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
	}
	if classifyOccupancy(table, prevStatus) == OccupancyActive {
		return nil, repository.ErrTableOccupied
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:         uuid.NewString(),
		TableID:    tableID,
		Status:     model.OrderPending,
		TotalCents: totalCents,
		StartedAt:  now,
	}
	if actor != nil {
		id := actor.ID
		order.CreatedBy = &id
	}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			OrderID:          order.ID,
			MenuItemID:       l.MenuItemID,
			Quantity:         l.Quantity,
			PriceAtTimeCents: l.PriceCents,
			Modifiers:        l.Modifiers,
		})
	}
	if err := s.items.CreateBulkTx(ctx, tx, items); err != nil {
		return nil, err
	}

	if err := s.tables.OccupyTx(ctx, tx, tableID, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	entry := audit.NewEntry("order.created", "order", order.ID)
	entry.ActorID = actorID(actor)
	entry.Payload = map[string]any{
		"table_id":    tableID,
		"total_cents": totalCents,
		"item_count":  len(items),
	}
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)

	return &CreateOrderResult{OrderID: order.ID}, nil
}

// GetActiveOrder returns the table's current non-terminal order with its
// lines, or nil when the table has none.  A failure fetching the lines
// degrades to an empty item list rather than failing the read: the
// client can retry and recover missing items, but not a failed order
// lookup.
func (s *OrderService) GetActiveOrder(ctx context.Context, tableID int64) (*ActiveOrder, error) {
	order, err := s.orders.ActiveByTable(ctx, tableID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByOrder(ctx, order.ID)
	if err != nil {
		log.Printf("order-service: item fetch for order %s failed, returning empty list: %v", order.ID, err)
		items = []repository.ItemDetail{}
	}
	var total int64
	for _, it := range items {
		if !it.Voided() {
			total += it.PriceAtTimeCents * it.Quantity
		}
	}
	return &ActiveOrder{Order: *order, Items: items, CustomerTotalCents: total}, nil
}

// UpdateStatus transitions an order to newStatus, stamping the matching
// milestone timestamps with the fill-once rule so duplicate transitions
// are idempotent.  Transitioning to paid releases the owning table in
// the same transaction; that release is the sole path by which a table
// becomes free.  Out-of-order transitions are allowed as a staff
// override but logged.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string, actor *Actor, meta RequestMeta) error {
	if !model.ValidOrderStatus(newStatus) {
		return ErrUnknownStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return err
	}

	if newStatus == model.OrderCooking {
		n, err := s.items.CountActiveTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrOrderHasNoItems
		}
	}
	if !model.IsForwardTransition(order.Status, newStatus) && order.Status != newStatus {
		log.Printf("order-service: non-forward transition %s -> %s on order %s", order.Status, newStatus, orderID)
	}

	now := time.Now().UTC()
	stamps := timestampPatch(order, newStatus, now)
	var paidBy *int64
	if newStatus == model.OrderPaid && order.PaidAt == nil && actor != nil {
		id := actor.ID
		paidBy = &id
	}
	if err := s.orders.UpdateStatusTx(ctx, tx, orderID, newStatus, stamps, paidBy); err != nil {
		return err
	}
	if newStatus == model.OrderPaid {
		if err := s.tables.ReleaseTx(ctx, tx, order.TableID); err != nil {
			return err
		}
		// A settled table is no longer anyone's to serve.
		if _, err := s.assignments.ReleaseTx(ctx, tx, order.TableID, 0, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	entry := audit.NewEntry("order.status_changed", "order", orderID)
	entry.ActorID = actorID(actor)
	entry.Payload = map[string]any{
		"old_status": order.Status,
		"new_status": newStatus,
		"table_id":   order.TableID,
	}
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)
	return nil
}

// VoidOrderItem soft-deletes an order line.  Non-admin actors may only
// void while the parent order is still pending; once the kitchen has
// started, pulling items would waste prepared food.  The line is kept
// for billing audit and only excluded from kitchen tickets and the
// customer total.
func (s *OrderService) VoidOrderItem(ctx context.Context, itemID int64, reason string, actor Actor, meta RequestMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	item, orderStatus, err := s.items.GetWithOrderStatusTx(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if item.Voided() {
		return repository.ErrItemVoided
	}
	if !canVoid(actor.Role, orderStatus) {
		return ErrVoidAfterCooking
	}
	if err := s.items.VoidTx(ctx, tx, itemID, actor.ID, reason, time.Now().UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	entry := voidAuditEntry(itemID, item, orderStatus, reason, actor)
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)
	return nil
}

// voidAuditEntry builds the audit record for an item void.  The entity
// is the voided line itself; the parent order travels in the payload.
func voidAuditEntry(itemID int64, item *model.OrderItem, orderStatus, reason string, actor Actor) audit.Entry {
	entry := audit.NewEntry("order_item.voided", "order_item", strconv.FormatInt(itemID, 10))
	id := actor.ID
	entry.ActorID = &id
	entry.Payload = map[string]any{
		"order_id":     item.OrderID,
		"menu_item_id": item.MenuItemID,
		"reason":       reason,
		"order_status": orderStatus,
	}
	return entry
}

// RequestAssistance flags an occupied table as needing a waiter.
func (s *OrderService) RequestAssistance(ctx context.Context, tableID int64, meta RequestMeta) error {
	return s.flagTable(ctx, tableID, model.TableNeedsAssistance, "table.assistance_requested", meta)
}

// RequestBill flags an occupied table as ready to pay.
func (s *OrderService) RequestBill(ctx context.Context, tableID int64, meta RequestMeta) error {
	return s.flagTable(ctx, tableID, model.TableNeedsBill, "table.bill_requested", meta)
}

func (s *OrderService) flagTable(ctx context.Context, tableID int64, status, action string, meta RequestMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table, err := s.tables.GetForUpdateTx(ctx, tx, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotOccupied
	}
	if err != nil {
		return err
	}
	if table.Status == model.TableEmpty || table.CurrentOrderID == nil {
		return ErrTableNotOccupied
	}
	if err := s.tables.SetStatusTx(ctx, tx, tableID, status); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	entry := audit.NewEntry(action, "table", formatTableID(tableID))
	entry.Payload = map[string]any{"status": status}
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)
	return nil
}

// ClaimTable opens a waiter assignment on a table being actively served.
// Claims serialize on the table row lock, so when two waiters race for
// the same table exactly one wins and the other gets
// repository.ErrTableAssigned.
func (s *OrderService) ClaimTable(ctx context.Context, tableID int64, actor Actor, meta RequestMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table, err := s.tables.GetForUpdateTx(ctx, tx, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotOccupied
	}
	if err != nil {
		return err
	}
	var orderStatus string
	if table.CurrentOrderID != nil {
		orderStatus, err = s.orders.StatusTx(ctx, tx, *table.CurrentOrderID)
		if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
	}
	existing, err := s.assignments.ActiveByTableTx(ctx, tx, tableID)
	if err != nil {
		return err
	}
	if err := classifyClaim(table, orderStatus, existing); err != nil {
		return err
	}
	if err := s.assignments.ClaimTx(ctx, tx, tableID, actor.ID, time.Now().UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	entry := audit.NewEntry("table.claimed", "table", formatTableID(tableID))
	id := actor.ID
	entry.ActorID = &id
	entry.Payload = map[string]any{"waiter_id": actor.ID}
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)
	return nil
}

// ReleaseTable closes the waiter's open assignment on the table.  An
// admin may release anyone's claim; a waiter only their own.
func (s *OrderService) ReleaseTable(ctx context.Context, tableID int64, actor Actor, meta RequestMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	owner := actor.ID
	if actor.Role == model.RoleAdmin {
		owner = 0
	}
	n, err := s.assignments.ReleaseTx(ctx, tx, tableID, owner, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotAssigned
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	entry := audit.NewEntry("table.unclaimed", "table", formatTableID(tableID))
	id := actor.ID
	entry.ActorID = &id
	entry.IP, entry.UserAgent = meta.IP, meta.UserAgent
	s.recorder.Record(ctx, entry)
	return nil
}

// MyTables returns the waiter's open assignments with each table's live
// state.
func (s *OrderService) MyTables(ctx context.Context, waiterID int64) ([]repository.AssignmentDetail, error) {
	return s.assignments.ListActiveByWaiter(ctx, waiterID)
}

// ListTables returns the floor board for staff dashboards.
func (s *OrderService) ListTables(ctx context.Context) ([]model.Table, error) {
	return s.tables.List(ctx)
}

// KitchenTicket is one entry on the kitchen display: an order still in
// pending or cooking with its non-voided lines.
type KitchenTicket struct {
	Order model.Order             `json:"order"`
	Items []repository.ItemDetail `json:"items"`
}

// KitchenQueue returns the outstanding tickets oldest first.  Voided
// lines never appear on a ticket.
func (s *OrderService) KitchenQueue(ctx context.Context) ([]KitchenTicket, error) {
	orders, err := s.orders.KitchenQueue(ctx)
	if err != nil {
		return nil, err
	}
	tickets := make([]KitchenTicket, 0, len(orders))
	for _, o := range orders {
		items, err := s.items.ListByOrder(ctx, o.ID)
		if err != nil {
			log.Printf("order-service: item fetch for ticket %s failed, returning empty list: %v", o.ID, err)
			items = []repository.ItemDetail{}
		}
		active := make([]repository.ItemDetail, 0, len(items))
		for _, it := range items {
			if !it.Voided() {
				active = append(active, it)
			}
		}
		tickets = append(tickets, KitchenTicket{Order: o, Items: active})
	}
	return tickets, nil
}

func actorID(a *Actor) *int64 {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}

func formatTableID(id int64) string {
	return strconv.FormatInt(id, 10)
}
