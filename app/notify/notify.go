package notify

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Event names published to the webview.
const (
	EventToast        = "toast"
	EventCartUpdate   = "cart:update"
	EventClockTick    = "clock:tick"
	EventCameraFeed   = "camera:feed"
	EventModalOpen    = "modal:open"
	EventModalClose   = "modal:close"
	EventConfirmShow  = "confirm:show"
	EventBarcodeValue = "barcode:value"
	EventReload       = "app:reload"
)

// Toast is the payload of EventToast.
type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // "success" or "error"
}

// Notifier publishes user-visible notifications and UI events. All
// failures surfaced through it are ephemeral; nothing is persisted.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Emit(event string, data ...interface{})
}

// Events is the wails-backed Notifier. The runtime context becomes
// available in the OnStartup hook, so emission before SetContext is a
// silent no-op.
type Events struct {
	mu  sync.RWMutex
	ctx context.Context
}

// NewEvents creates an Events notifier with no context yet.
func NewEvents() *Events {
	return &Events{}
}

// SetContext installs the wails runtime context.
func (e *Events) SetContext(ctx context.Context) {
	e.mu.Lock()
	e.ctx = ctx
	e.mu.Unlock()
}

func (e *Events) context() context.Context {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ctx
}

// Success emits a success toast.
func (e *Events) Success(title, message string) {
	e.Emit(EventToast, Toast{Title: title, Message: message, Type: "success"})
}

// Error emits an error toast.
func (e *Events) Error(title, message string) {
	e.Emit(EventToast, Toast{Title: title, Message: message, Type: "error"})
}

// Emit publishes a named runtime event to the webview.
func (e *Events) Emit(event string, data ...interface{}) {
	ctx := e.context()
	if ctx == nil {
		return
	}
	runtime.EventsEmit(ctx, event, data...)
}
