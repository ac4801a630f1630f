package controller

import (
	"CounterPOS/app/barcode"
	"CounterPOS/app/cart"
	"CounterPOS/app/device"
	"CounterPOS/app/modal"
	"CounterPOS/app/models"
)

// Controller is the command surface bound to the webview. The frontend
// calls these methods; state flows back through emitted events, so
// every method here is safe to call from any UI handler without
// awaiting a payload.
type Controller struct {
	cart   *cart.Engine
	device *device.Session
	modals *modal.Coordinator
	bridge *barcode.Bridge
}

// NewController creates the webview command surface.
func NewController(cartEngine *cart.Engine, session *device.Session, modals *modal.Coordinator, bridge *barcode.Bridge) *Controller {
	return &Controller{
		cart:   cartEngine,
		device: session,
		modals: modals,
		bridge: bridge,
	}
}

// OpenModal shows a modal. Opening the order-entry modal also starts
// the camera session.
func (c *Controller) OpenModal(id string) {
	c.modals.Open(id)
}

// CloseModal hides a modal. skipClear suppresses the cart clear that
// normally accompanies closing the order-entry modal.
func (c *Controller) CloseModal(id string, skipClear bool) {
	c.modals.Close(id, skipClear)
}

// ScrimClicked reports a click landing on an open modal. Only clicks
// on the scrim itself dismiss it.
func (c *Controller) ScrimClicked(id, targetID string) {
	c.modals.ScrimClicked(id, targetID)
}

// RequestCancelOrder asks for confirmation before abandoning the
// current order.
func (c *Controller) RequestCancelOrder() {
	c.modals.RequestCancelOrder()
}

// ResolveCancelOrder completes the cancel-order confirmation.
func (c *Controller) ResolveCancelOrder(confirmed bool) {
	c.modals.ResolveCancelOrder(confirmed)
}

// RefreshCart forces an immediate cart reconcile outside the polling
// cadence.
func (c *Controller) RefreshCart() {
	c.cart.Refresh()
}

// CartView returns the last rendered cart.
func (c *Controller) CartView() models.CartView {
	return c.cart.View()
}

// UpdateQuantity sets a cart line's quantity. Zero or negative removes
// the line.
func (c *Controller) UpdateQuantity(barcodeValue string, qty int) error {
	return c.cart.UpdateQuantity(barcodeValue, qty)
}

// RemoveItem deletes a cart line.
func (c *Controller) RemoveItem(barcodeValue string) error {
	return c.cart.RemoveItem(barcodeValue)
}

// ClearCart empties the cart.
func (c *Controller) ClearCart() error {
	return c.cart.Clear()
}

// Checkout turns the cart into an order and returns the new order id.
func (c *Controller) Checkout() (int64, error) {
	return c.cart.Checkout()
}

// DeviceStatus returns the camera session state as a string.
func (c *Controller) DeviceStatus() string {
	return c.device.Status().String()
}

// StartDevice starts the camera session outside the modal lifecycle,
// for the settings screen's camera test.
func (c *Controller) StartDevice() error {
	return c.device.Start()
}

// StopDevice stops the camera session.
func (c *Controller) StopDevice() error {
	return c.device.Stop()
}

// LastBarcode returns the most recently applied scan.
func (c *Controller) LastBarcode() string {
	return c.bridge.LastApplied()
}
