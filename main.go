package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"CounterPOS/app/api"
	"CounterPOS/app/barcode"
	"CounterPOS/app/cart"
	"CounterPOS/app/clock"
	"CounterPOS/app/config"
	"CounterPOS/app/controller"
	"CounterPOS/app/device"
	"CounterPOS/app/display"
	"CounterPOS/app/format"
	"CounterPOS/app/modal"
	"CounterPOS/app/notify"
	"CounterPOS/app/scheduler"
	"CounterPOS/app/services"

	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

// orderEntryModal is the modal whose lifecycle owns the camera session.
const orderEntryModal = "orderNewModal"

// App struct
type App struct {
	ctx context.Context

	LoggerService  *services.LoggerService
	ProductService *services.ProductService
	OrderService   *services.OrderService
	SheetsService  *services.SheetsService

	Events     *notify.Events
	Scheduler  *scheduler.Scheduler
	CartEngine *cart.Engine
	Device     *device.Session
	Clock      *clock.Clock
	Controller *controller.Controller
	Display    *display.Server

	cfg *config.AppConfig
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved so the
// runtime event channel becomes live, then the background timers begin.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.Events.SetContext(ctx)

	if a.Display != nil {
		a.LoggerService.LogInfo("Starting customer display server", fmt.Sprintf("Port: %d", a.cfg.Display.Port))
		a.Display.Start()
	}

	a.Clock.Start()
	a.CartEngine.StartAutoRefresh()
	// First paint should not wait for the first tick.
	go func() {
		defer a.LoggerService.RecoverPanic()
		a.CartEngine.Refresh()
	}()
}

// beforeClose is called when the application is about to quit.
func (a *App) beforeClose(ctx context.Context) (prevent bool) {
	a.LoggerService.LogInfo("Application closing")

	if err := a.Device.Stop(); err != nil {
		a.LoggerService.LogError("Error stopping camera session", err)
	}

	a.Scheduler.StopAll()

	if a.SheetsService != nil && a.SheetsService.Enabled() {
		a.LoggerService.LogInfo("Exporting orders to Google Sheets before close")
		if count, err := a.SheetsService.ExportOrders(); err != nil {
			a.LoggerService.LogWarning("Final sheets export failed", err.Error())
		} else {
			a.LoggerService.LogInfo("Final sheets export complete", fmt.Sprintf("%d orders", count))
		}
	}

	if a.Display != nil {
		a.LoggerService.LogInfo("Stopping customer display server")
		a.Display.Stop()
	}

	a.LoggerService.LogInfo("Application shutdown complete")
	return false
}

func main() {
	// Initialize logger FIRST to catch all errors
	loggerService := services.NewLoggerService()
	defer loggerService.Close()

	defer func() {
		if r := recover(); r != nil {
			loggerService.LogPanic(r)
			os.Exit(1)
		}
	}()

	loggerService.LogInfo("Application starting", "CounterPOS")

	// .env overrides are for development only
	if err := godotenv.Load(".env"); err != nil {
		loggerService.LogInfo(".env file not found, using config.json")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		loggerService.LogWarning("Could not load config, creating defaults", err.Error())
		cfg, err = config.CreateDefaultConfig()
		if err != nil {
			loggerService.LogError("Could not create default config", err)
			os.Exit(1)
		}
	}

	app := NewApp()
	app.cfg = cfg
	app.LoggerService = loggerService
	app.Events = notify.NewEvents()
	app.Scheduler = scheduler.New()

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())
	formatter := format.New(cfg.Locale.Tag, cfg.Locale.CurrencyGlyph)

	if cfg.Display.Enabled {
		app.Display = display.NewServer(cfg.Display.Port, cfg.Display.ServiceName, cfg.Display.PINHash, cfg.Display.EnableMDNS)
	}

	// The display server satisfies cart.Broadcaster; a typed nil must
	// not reach the engine.
	var broadcaster cart.Broadcaster
	if app.Display != nil {
		broadcaster = app.Display
	}

	app.CartEngine = cart.NewEngine(client, app.Scheduler, app.Events, formatter, broadcaster, cfg.Polling.CartInterval())

	bridge := barcode.NewBridge(client, app.Events)
	app.Device = device.NewSession(client, app.Scheduler, app.Events, cfg.Polling.BarcodeInterval(), cfg.Device.Mode, bridge.Poll)

	modals := modal.NewCoordinator(app.Device, app.CartEngine, app.Events, orderEntryModal)
	app.Controller = controller.NewController(app.CartEngine, app.Device, modals, bridge)

	app.Clock = clock.New(app.Scheduler, app.Events, formatter, cfg.Polling.ClockInterval())

	app.ProductService = services.NewProductService(client, app.Events)
	app.OrderService = services.NewOrderService(client, formatter)
	app.SheetsService = services.NewSheetsService(cfg.Sheets, client)

	err = wails.Run(&options.App{
		Title:  "CounterPOS",
		Width:  1400,
		Height: 900,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnBeforeClose:    app.beforeClose,
		Bind: []interface{}{
			app,
			app.Controller,
			app.ProductService,
			app.OrderService,
			app.SheetsService,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Menu: nil,
	})

	if err != nil {
		loggerService.LogError("Wails application error", err)
		println("Error:", err.Error())
	}
}
