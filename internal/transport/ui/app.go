// Package ui provides the GUI implementation using Fyne.
// It only handles I/O and user interaction; run logic lives in the use cases.
package ui

import (
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
	"github.com/whhaicheng/news-scraper/internal/domain/notice"
	"github.com/whhaicheng/news-scraper/internal/transport/ui/pages"
)

// appID identifies the application to the fyne preferences store.
const appID = "com.news-scraper.app"

// Application represents the Fyne GUI application.
type Application struct {
	app        fyne.App
	cfg        config.UIConfig
	controller *usecase.RunController
	relay      *usecase.Relay
	historyUC  *usecase.HistoryUseCase
	exporter   *usecase.ExportUseCase
}

// NewApplication creates a new Fyne application. The controller must
// publish its snapshots through relay. historyUC and exporter may be nil.
func NewApplication(cfg config.UIConfig, controller *usecase.RunController, relay *usecase.Relay, historyUC *usecase.HistoryUseCase, exporter *usecase.ExportUseCase) *Application {
	return &Application{
		app:        app.NewWithID(appID),
		cfg:        cfg,
		controller: controller,
		relay:      relay,
		historyUC:  historyUC,
		exporter:   exporter,
	}
}

// Run starts the application. It blocks until the main window is closed.
func (a *Application) Run() {
	appTheme := NewTheme(a.cfg.Theme)
	a.app.Settings().SetTheme(appTheme)

	window := a.app.NewWindow(a.cfg.Title)
	window.Resize(fyne.NewSize(440, 760))
	window.SetMaster()

	initial := a.controller.Snapshot()
	dashboard, dashboardContent := pages.NewDashboardPage(a.cfg.Title, a.controller, a.cfg.LogLines, initial)
	historyPage, historyContent := pages.NewHistoryPage(window, a.historyUC, a.exporter)

	// Toasts and the elapsed timer are derived from the snapshot stream.
	overlay, overlayContent := pages.NewToastOverlay(nil)
	toasts := usecase.NewToastQueue(nil, a.cfg.ToastDuration, overlay.OnChange())
	defer toasts.Close()
	overlay.SetDismiss(toasts.Dismiss)

	elapsed := usecase.NewElapsedTimer(nil, dashboard.ElapsedSink())
	defer elapsed.Close()

	a.relay.Attach(dashboard.Sink())
	a.relay.Attach(elapsed.Observe)
	a.relay.Attach(usecase.NoticeSink(initial, func(n notice.Notice) { toasts.Push(n) }))

	themeBtn := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), nil)
	themeBtn.OnTapped = func() {
		appTheme = NewTheme(nextMode(appTheme.Mode()))
		a.app.Settings().SetTheme(appTheme)
		slog.Debug("Theme changed", "mode", appTheme.Mode())
	}
	themeBtn.Importance = widget.LowImportance

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Dashboard", theme.HomeIcon(), dashboardContent),
		container.NewTabItemWithIcon("History", theme.HistoryIcon(), historyContent),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(tab *container.TabItem) {
		if tab.Text == "History" {
			historyPage.Refresh()
		}
	}

	root := container.NewBorder(container.NewHBox(layout.NewSpacer(), themeBtn), nil, nil, nil, tabs)
	window.SetContent(container.NewStack(root, overlayContent))

	window.SetCloseIntercept(func() {
		// Record the stop of an active run before the window goes away.
		if a.controller.Snapshot().IsRunning() {
			a.controller.Stop()
		}
		a.controller.Close()
		a.app.Quit()
	})

	a.showSplash(window)
	a.app.Run()
}

// showSplash shows a branded splash window for the configured duration
// before the main window. Drivers without splash support show the main
// window directly.
func (a *Application) showSplash(win fyne.Window) {
	drv, ok := a.app.Driver().(desktop.Driver)
	if !ok || a.cfg.SplashDuration <= 0 {
		win.Show()
		return
	}

	splash := drv.CreateSplashWindow()
	bg := canvas.NewRectangle(brandColor)
	title := canvas.NewText(a.cfg.Title, color.White)
	title.TextSize = 28
	title.TextStyle = fyne.TextStyle{Bold: true}
	splash.SetContent(container.NewStack(bg, container.NewCenter(title)))
	splash.Resize(fyne.NewSize(360, 200))
	splash.CenterOnScreen()
	splash.Show()

	time.AfterFunc(a.cfg.SplashDuration, func() {
		fyne.Do(func() {
			splash.Close()
			win.Show()
		})
	})
}
