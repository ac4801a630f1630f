package cart

import (
	"log"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"CounterPOS/app/api"
	"CounterPOS/app/format"
	"CounterPOS/app/models"
	"CounterPOS/app/notify"
	"CounterPOS/app/scheduler"
)

// Broadcaster pushes cart state to paired customer displays. It is
// optional; a nil Broadcaster disables the customer display.
type Broadcaster interface {
	BroadcastCart(view models.CartView)
	BroadcastOrderCreated(orderID int64, totalText string)
}

// Engine keeps the rendered cart consistent with the server-owned
// cart. Every successful fetch replaces the view wholly; no partial
// merging, no optimistic local edits. Mutations are fire-and-forget
// followed by a reconciling refresh.
type Engine struct {
	client    *api.Client
	sched     *scheduler.Scheduler
	notifier  notify.Notifier
	formatter *format.Formatter
	display   Broadcaster
	interval  time.Duration

	mu          sync.Mutex
	reqSeq      uint64
	lastApplied uint64
	view        models.CartView
	lastFailed  bool
}

// NewEngine creates a cart sync engine. display may be nil.
func NewEngine(client *api.Client, sched *scheduler.Scheduler, notifier notify.Notifier, formatter *format.Formatter, display Broadcaster, interval time.Duration) *Engine {
	return &Engine{
		client:    client,
		sched:     sched,
		notifier:  notifier,
		formatter: formatter,
		display:   display,
		interval:  interval,
	}
}

// StartAutoRefresh begins the periodic cart refresh. Idempotent; the
// scheduler guarantees a single active cart timer.
func (e *Engine) StartAutoRefresh() {
	e.sched.Start(scheduler.TimerCart, e.interval, e.Refresh)
}

// StopAutoRefresh cancels the periodic cart refresh.
func (e *Engine) StopAutoRefresh() {
	e.sched.Stop(scheduler.TimerCart)
}

// Refresh fetches the authoritative snapshot and replaces the rendered
// view. On failure the previous view stays intact and the next
// scheduled tick is the retry. Responses that resolve after a newer
// snapshot has been applied are discarded.
func (e *Engine) Refresh() {
	e.mu.Lock()
	e.reqSeq++
	seq := e.reqSeq
	e.mu.Unlock()

	snapshot, err := e.client.FetchCart()
	if err != nil {
		log.Printf("Cart refresh failed: %v", err)
		e.mu.Lock()
		alreadyFailed := e.lastFailed
		e.lastFailed = true
		e.mu.Unlock()
		// One toast per outage, not one per polling tick.
		if !alreadyFailed {
			e.notifier.Error("Lỗi", "Không thể tải giỏ hàng")
		}
		return
	}

	e.applySnapshot(seq, snapshot)
}

// applySnapshot renders and installs a fetched snapshot unless a newer
// one has already been applied. Returns whether the snapshot won.
func (e *Engine) applySnapshot(seq uint64, snapshot models.Cart) bool {
	view := e.render(snapshot)

	e.mu.Lock()
	if seq <= e.lastApplied {
		e.mu.Unlock()
		return false
	}
	e.lastApplied = seq
	e.view = view
	e.lastFailed = false
	e.mu.Unlock()

	e.notifier.Emit(notify.EventCartUpdate, view)
	if e.display != nil {
		e.display.BroadcastCart(view)
	}
	return true
}

// render builds the display view from a snapshot. Lines are sorted by
// barcode for stable display; the grand total is the sum of the
// server-computed line totals.
func (e *Engine) render(snapshot models.Cart) models.CartView {
	view := models.CartView{Lines: make([]models.CartLine, 0, len(snapshot))}

	for barcode, item := range snapshot {
		if mismatch := item.Price*float64(item.Qty) - item.Total; math.Abs(mismatch) > 0.01 {
			log.Printf("Cart line %s total %v does not match price*qty %v", barcode, item.Total, item.Price*float64(item.Qty))
		}
		view.Lines = append(view.Lines, models.CartLine{
			Barcode:   barcode,
			Name:      item.Name,
			Price:     item.Price,
			Qty:       item.Qty,
			Total:     item.Total,
			PriceText: e.formatter.Currency(item.Price),
			TotalText: e.formatter.Currency(item.Total),
		})
		view.ItemCount += item.Qty
		view.GrandTotal += item.Total
	}

	sort.Slice(view.Lines, func(i, j int) bool {
		return view.Lines[i].Barcode < view.Lines[j].Barcode
	})
	view.GrandTotalText = e.formatter.Currency(view.GrandTotal)
	return view
}

// View returns the last rendered cart view.
func (e *Engine) View() models.CartView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// UpdateQuantity sets a line's quantity. Non-positive quantities
// delegate to RemoveItem: an item with qty <= 0 must not exist in the
// cart. The UI stays stale until the follow-up refresh reconciles.
func (e *Engine) UpdateQuantity(barcode string, qty int) error {
	if qty <= 0 {
		return e.RemoveItem(barcode)
	}
	if err := e.client.UpdateQuantity(barcode, qty); err != nil {
		log.Printf("Quantity update failed for %s: %v", barcode, err)
		e.notifier.Error("Lỗi", e.userMessage(err, "Không thể cập nhật số lượng"))
		return err
	}
	e.Refresh()
	return nil
}

// RemoveItem deletes a line, then reconciles.
func (e *Engine) RemoveItem(barcode string) error {
	if err := e.client.RemoveItem(barcode); err != nil {
		log.Printf("Remove item failed for %s: %v", barcode, err)
		e.notifier.Error("Lỗi", e.userMessage(err, "Không thể xóa sản phẩm"))
		return err
	}
	e.Refresh()
	return nil
}

// Clear empties the cart, then reconciles. Whether clearing is
// accompanied by a page reload is the caller's decision.
func (e *Engine) Clear() error {
	if _, err := e.client.ClearCart(); err != nil {
		log.Printf("Cart clear failed: %v", err)
		e.notifier.Error("Lỗi", e.userMessage(err, "Không thể xóa giỏ hàng"))
		return err
	}
	e.Refresh()
	return nil
}

// Checkout consumes the cart into a new order. On success the created
// order id is surfaced and the (now empty) cart is reconciled. On
// failure nothing changes.
func (e *Engine) Checkout() (int64, error) {
	orderID, err := e.client.Checkout()
	if err != nil {
		log.Printf("Checkout failed: %v", err)
		e.notifier.Error("Thanh toán thất bại!", e.userMessage(err, "Vui lòng thử lại sau."))
		return 0, err
	}

	view := e.View()
	e.notifier.Success("Thanh toán thành công!", "Đơn hàng #"+formatOrderID(orderID)+" đã được tạo!")
	if e.display != nil {
		e.display.BroadcastOrderCreated(orderID, view.GrandTotalText)
	}
	e.Refresh()
	return orderID, nil
}

func formatOrderID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// userMessage picks the verbatim backend rejection when there is one,
// the fallback otherwise.
func (e *Engine) userMessage(err error, fallback string) string {
	if api.IsDomain(err) {
		return err.Error()
	}
	return fallback
}
