package barcode

import (
	"log"
	"sync"

	"CounterPOS/app/models"
	"CounterPOS/app/notify"
)

// Poller reads the most recently decoded scan result.
type Poller interface {
	PollBarcode() (*models.BarcodeResult, error)
}

// Bridge applies freshly decoded barcode values exactly once. The same
// physical barcode staying in view yields the same decoded value on
// every poll; only a change of value triggers a new application.
type Bridge struct {
	poller   Poller
	notifier notify.Notifier

	mu          sync.Mutex
	lastApplied string
	lastError   string
}

// NewBridge creates a bridge over the given poller.
func NewBridge(poller Poller, notifier notify.Notifier) *Bridge {
	return &Bridge{
		poller:   poller,
		notifier: notifier,
	}
}

// Poll is one barcode poll tick. It runs only while a device session
// is streaming; the device controller owns the timer.
func (b *Bridge) Poll() {
	result, err := b.poller.PollBarcode()
	if err != nil {
		// Transport failure: the next tick is the retry.
		log.Printf("Barcode poll failed: %v", err)
		return
	}

	switch {
	case result.Success && result.Barcode != "":
		b.mu.Lock()
		if result.Barcode == b.lastApplied {
			b.mu.Unlock()
			return
		}
		b.lastApplied = result.Barcode
		b.lastError = ""
		b.mu.Unlock()

		b.notifier.Emit(notify.EventBarcodeValue, result.Barcode)
		b.notifier.Success("Thành công", "Đã quét mã mới")

	case result.Message != "":
		// Scan rejected by the backend (e.g. duplicate product). The
		// last applied value stays untouched, and the same rejection
		// is reported once, not on every tick it remains in view.
		b.mu.Lock()
		if result.Message == b.lastError {
			b.mu.Unlock()
			return
		}
		b.lastError = result.Message
		b.mu.Unlock()

		b.notifier.Error("Lỗi", result.Message)
	}
}

// LastApplied returns the most recently applied barcode value.
func (b *Bridge) LastApplied() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastApplied
}
