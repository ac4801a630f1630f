package modal

import (
	"log"
	"sync"

	"CounterPOS/app/notify"
)

// DeviceController is the camera session bound to the order-entry
// modal.
type DeviceController interface {
	Start() error
	Stop() error
}

// CartClearer empties the server-owned cart.
type CartClearer interface {
	Clear() error
}

// Coordinator owns modal visibility and sequences the device session
// with the one modal bound to it: device start on open, device stop
// plus cart clear on close.
type Coordinator struct {
	device      DeviceController
	cart        CartClearer
	notifier    notify.Notifier
	deviceModal string

	mu            sync.Mutex
	visible       map[string]bool
	pendingCancel bool
}

// NewCoordinator creates a coordinator. deviceModal names the modal
// whose lifecycle drives the camera session.
func NewCoordinator(device DeviceController, cart CartClearer, notifier notify.Notifier, deviceModal string) *Coordinator {
	return &Coordinator{
		device:      device,
		cart:        cart,
		notifier:    notifier,
		deviceModal: deviceModal,
		visible:     make(map[string]bool),
	}
}

// Open marks the modal visible. Opening the device-bound modal starts
// the camera session before the capture surface is usable; the session
// itself rejects double starts, so a rapid double open is harmless.
func (c *Coordinator) Open(id string) {
	c.mu.Lock()
	c.visible[id] = true
	c.mu.Unlock()

	c.notifier.Emit(notify.EventModalOpen, id)

	if id == c.deviceModal {
		if err := c.device.Start(); err != nil {
			log.Printf("Device start on modal %s open failed: %v", id, err)
		}
	}
}

// Close marks the modal hidden. Closing the device-bound modal stops
// the camera session unconditionally and, unless skipClear is set,
// clears the cart. skipClear exists for close paths that run their own
// clear-then-reload sequence and must not clear twice.
func (c *Coordinator) Close(id string, skipClear bool) {
	c.mu.Lock()
	c.visible[id] = false
	c.mu.Unlock()

	c.notifier.Emit(notify.EventModalClose, id)

	if id != c.deviceModal {
		return
	}

	if err := c.device.Stop(); err != nil {
		log.Printf("Device stop on modal %s close failed: %v", id, err)
	}
	if !skipClear {
		if err := c.cart.Clear(); err != nil {
			log.Printf("Cart clear on modal %s close failed: %v", id, err)
		}
	}
}

// ScrimClicked handles a click landing somewhere on an open modal.
// Only a click on the background scrim itself dismisses the modal;
// clicks originating inside modal content do nothing.
func (c *Coordinator) ScrimClicked(id, targetID string) {
	if targetID != id {
		return
	}

	c.mu.Lock()
	open := c.visible[id]
	c.mu.Unlock()
	if !open {
		return
	}

	c.Close(id, false)
}

// IsVisible reports whether the modal is currently shown.
func (c *Coordinator) IsVisible(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible[id]
}

// RequestCancelOrder puts the coordinator in a pending-confirmation
// state and asks the frontend to show the confirmation surface. The
// decision arrives through ResolveCancelOrder; nothing blocks.
func (c *Coordinator) RequestCancelOrder() {
	c.mu.Lock()
	c.pendingCancel = true
	c.mu.Unlock()

	c.notifier.Emit(notify.EventConfirmShow, "Bạn có chắc muốn hủy đơn hàng?")
}

// ResolveCancelOrder completes a pending cancel-order confirmation.
// Confirming clears the cart, closes the device modal without a second
// clear, and asks the frontend to reload. A resolve with no pending
// request is ignored.
func (c *Coordinator) ResolveCancelOrder(confirmed bool) {
	c.mu.Lock()
	if !c.pendingCancel {
		c.mu.Unlock()
		return
	}
	c.pendingCancel = false
	c.mu.Unlock()

	if !confirmed {
		return
	}

	if err := c.cart.Clear(); err != nil {
		log.Printf("Cart clear on order cancel failed: %v", err)
	}
	c.Close(c.deviceModal, true)
	c.notifier.Emit(notify.EventReload)
}

// PendingCancel reports whether a cancel-order confirmation is
// awaiting a decision.
func (c *Coordinator) PendingCancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCancel
}
