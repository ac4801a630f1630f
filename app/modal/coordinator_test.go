package modal

import (
	"testing"

	"CounterPOS/app/notify"
)

type fakeDevice struct {
	ops *[]string
}

func (d *fakeDevice) Start() error {
	*d.ops = append(*d.ops, "device-start")
	return nil
}

func (d *fakeDevice) Stop() error {
	*d.ops = append(*d.ops, "device-stop")
	return nil
}

type fakeCart struct {
	ops *[]string
}

func (c *fakeCart) Clear() error {
	*c.ops = append(*c.ops, "cart-clear")
	return nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Success(title, message string)      {}
func (n *recordingNotifier) Error(title, message string)        {}
func (n *recordingNotifier) Emit(event string, data ...interface{}) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count(event string) int {
	c := 0
	for _, e := range n.events {
		if e == event {
			c++
		}
	}
	return c
}

func newTestCoordinator() (*Coordinator, *[]string, *recordingNotifier) {
	ops := &[]string{}
	notifier := &recordingNotifier{}
	c := NewCoordinator(&fakeDevice{ops: ops}, &fakeCart{ops: ops}, notifier, "orderNewModal")
	return c, ops, notifier
}

func countOps(ops []string, op string) int {
	c := 0
	for _, o := range ops {
		if o == op {
			c++
		}
	}
	return c
}

func TestOpenDeviceModalStartsSession(t *testing.T) {
	c, ops, notifier := newTestCoordinator()

	c.Open("orderNewModal")
	if !c.IsVisible("orderNewModal") {
		t.Error("modal not visible after open")
	}
	if countOps(*ops, "device-start") != 1 {
		t.Errorf("ops = %v, want one device start", *ops)
	}
	if notifier.count(notify.EventModalOpen) != 1 {
		t.Error("open event not emitted")
	}
}

func TestOpenOtherModalLeavesDeviceAlone(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("historyModal")
	if len(*ops) != 0 {
		t.Errorf("ops = %v, want none", *ops)
	}
}

func TestCloseDeviceModalStopsThenClears(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("orderNewModal")
	c.Close("orderNewModal", false)

	if c.IsVisible("orderNewModal") {
		t.Error("modal still visible after close")
	}

	stopAt, clearAt := -1, -1
	for i, op := range *ops {
		switch op {
		case "device-stop":
			stopAt = i
		case "cart-clear":
			clearAt = i
		}
	}
	if stopAt == -1 || clearAt == -1 || stopAt > clearAt {
		t.Errorf("ops = %v, want device stop before cart clear", *ops)
	}
}

func TestCloseWithSkipClear(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("orderNewModal")
	c.Close("orderNewModal", true)

	if countOps(*ops, "device-stop") != 1 {
		t.Errorf("ops = %v, want device stop", *ops)
	}
	if countOps(*ops, "cart-clear") != 0 {
		t.Errorf("ops = %v, skipClear must suppress the clear", *ops)
	}
}

func TestCloseOtherModalLeavesDeviceAndCartAlone(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("historyModal")
	c.Close("historyModal", false)
	if len(*ops) != 0 {
		t.Errorf("ops = %v, want none", *ops)
	}
}

func TestScrimClickOnContentIsIgnored(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("orderNewModal")
	c.ScrimClicked("orderNewModal", "checkoutButton")

	if !c.IsVisible("orderNewModal") {
		t.Error("content click dismissed the modal")
	}
	if countOps(*ops, "device-stop") != 0 {
		t.Errorf("ops = %v, content click must not stop the device", *ops)
	}
}

func TestScrimClickOnBackdropDismisses(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.Open("orderNewModal")
	c.ScrimClicked("orderNewModal", "orderNewModal")

	if c.IsVisible("orderNewModal") {
		t.Error("backdrop click did not dismiss the modal")
	}
	if countOps(*ops, "device-stop") != 1 || countOps(*ops, "cart-clear") != 1 {
		t.Errorf("ops = %v, want full close sequence", *ops)
	}
}

func TestScrimClickOnHiddenModalIsIgnored(t *testing.T) {
	c, ops, _ := newTestCoordinator()

	c.ScrimClicked("orderNewModal", "orderNewModal")
	if len(*ops) != 0 {
		t.Errorf("ops = %v, want none for a hidden modal", *ops)
	}
}

func TestCancelOrderConfirmationFlow(t *testing.T) {
	c, ops, notifier := newTestCoordinator()

	c.Open("orderNewModal")
	c.RequestCancelOrder()

	if !c.PendingCancel() {
		t.Fatal("no pending confirmation after request")
	}
	if notifier.count(notify.EventConfirmShow) != 1 {
		t.Error("confirmation surface not requested")
	}
	if countOps(*ops, "cart-clear") != 0 {
		t.Error("nothing may change before the decision")
	}

	c.ResolveCancelOrder(true)

	if c.PendingCancel() {
		t.Error("confirmation still pending after resolve")
	}
	// One clear total: the close path must not clear a second time.
	if countOps(*ops, "cart-clear") != 1 {
		t.Errorf("ops = %v, want exactly one cart clear", *ops)
	}
	if countOps(*ops, "device-stop") != 1 {
		t.Errorf("ops = %v, want device stopped", *ops)
	}
	if notifier.count(notify.EventReload) != 1 {
		t.Error("reload not requested after confirmed cancel")
	}
}

func TestCancelOrderDeclined(t *testing.T) {
	c, ops, notifier := newTestCoordinator()

	c.Open("orderNewModal")
	c.RequestCancelOrder()
	c.ResolveCancelOrder(false)

	if c.PendingCancel() {
		t.Error("confirmation still pending")
	}
	if countOps(*ops, "cart-clear") != 0 || countOps(*ops, "device-stop") != 0 {
		t.Errorf("ops = %v, decline must change nothing", *ops)
	}
	if notifier.count(notify.EventReload) != 0 {
		t.Error("decline must not reload")
	}
	if !c.IsVisible("orderNewModal") {
		t.Error("decline must leave the modal open")
	}
}

func TestResolveWithoutPendingIsIgnored(t *testing.T) {
	c, ops, notifier := newTestCoordinator()

	c.ResolveCancelOrder(true)
	if len(*ops) != 0 || notifier.count(notify.EventReload) != 0 {
		t.Error("resolve with no pending request must be a no-op")
	}
}
