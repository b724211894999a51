// Package pages provides GUI pages for the news scraper.
// Dashboard page implementation.
package pages

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

// Commander issues run commands from the dashboard buttons.
type Commander interface {
	Toggle()
	Pause()
	Stop()
}

// DashboardPage shows the run state: timer, counter, status badge,
// activity log and the control buttons.
type DashboardPage struct {
	cmd      Commander
	logLines int
	state    scrape.State

	timerText   *canvas.Text
	countText   *canvas.Text
	badgeBg     *canvas.Rectangle
	badgeText   *canvas.Text
	statusLabel *widget.Label
	logList     *widget.List
	logRows     []string

	startBtn *widget.Button
	pauseBtn *widget.Button
	stopBtn  *widget.Button
}

// NewDashboardPage creates the dashboard page rendering initial.
// Returns both the page instance and its canvas object.
func NewDashboardPage(title string, cmd Commander, logLines int, initial scrape.State) (*DashboardPage, fyne.CanvasObject) {
	page := &DashboardPage{
		cmd:      cmd,
		logLines: logLines,
	}

	// Header: timer and counter
	page.timerText = canvas.NewText(usecase.FormatElapsed(0), theme.Color(theme.ColorNamePrimary))
	page.timerText.TextSize = 24
	page.timerText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	page.timerText.Alignment = fyne.TextAlignCenter

	page.countText = canvas.NewText("0", theme.Color(theme.ColorNamePrimary))
	page.countText.TextSize = 24
	page.countText.TextStyle = fyne.TextStyle{Bold: true}
	page.countText.Alignment = fyne.TextAlignCenter

	headerGrid := container.NewGridWithColumns(2,
		container.NewVBox(caption("⏱ Timer"), page.timerText),
		container.NewVBox(caption("🖼 Images"), page.countText),
	)
	headerCard := widget.NewCard(title, "", headerGrid)

	// Status: badge, message and activity log
	page.badgeBg = canvas.NewRectangle(theme.Color(theme.ColorNameDisabled))
	page.badgeBg.CornerRadius = 8
	page.badgeText = canvas.NewText(scrape.PhaseStopped.Label(), color.White)
	page.badgeText.TextSize = 12
	page.badgeText.TextStyle = fyne.TextStyle{Bold: true}
	badge := container.NewStack(page.badgeBg, container.NewPadded(page.badgeText))

	page.statusLabel = widget.NewLabel("")
	page.statusLabel.Wrapping = fyne.TextWrapWord

	page.logList = widget.NewList(
		func() int {
			return len(page.logRows)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("00:00:00: log entry")
			label.SizeName = theme.SizeNameCaptionText
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(page.logRows) {
				return
			}
			obj.(*widget.Label).SetText(page.logRows[id])
		},
	)
	logScroll := container.NewStack(page.logList)
	logArea := container.NewGridWrap(fyne.NewSize(360, 160), logScroll)

	statusHeader := container.NewHBox(widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), layout.NewSpacer(), badge)
	statusCard := widget.NewCard("", "", container.NewVBox(
		statusHeader,
		page.statusLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Activity Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		logArea,
	))

	// Controls
	page.startBtn = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		page.cmd.Toggle()
	})
	page.startBtn.Importance = widget.SuccessImportance

	page.pauseBtn = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), func() {
		page.cmd.Pause()
	})
	page.pauseBtn.Importance = widget.WarningImportance

	page.stopBtn = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() {
		page.cmd.Stop()
	})
	page.stopBtn.Importance = widget.HighImportance

	controls := widget.NewCard("", "", container.NewGridWithColumns(3, page.startBtn, page.pauseBtn, page.stopBtn))

	page.Render(initial)

	content := container.NewVBox(headerCard, statusCard, controls)
	return page, container.NewVScroll(container.NewPadded(content))
}

// Render shows a snapshot. Must be called on the fyne goroutine.
func (p *DashboardPage) Render(s scrape.State) {
	p.state = s

	p.countText.Text = strconv.Itoa(s.WorkCount)
	p.countText.Refresh()

	p.badgeText.Text = s.Phase.Label()
	p.badgeText.Refresh()
	p.badgeBg.FillColor = badgeColor(s.Phase)
	p.badgeBg.Refresh()

	p.statusLabel.SetText(s.StatusMessage)

	recent := scrape.RecentLog(s, p.logLines)
	p.logRows = make([]string, len(recent))
	for i, e := range recent {
		p.logRows[i] = e.String()
	}
	p.logList.Refresh()

	if s.IsPaused() {
		p.startBtn.SetText("Resume")
	} else {
		p.startBtn.SetText("Start")
	}
	setEnabled(p.startBtn, s.CanStart())
	setEnabled(p.pauseBtn, s.CanPause())
}

// SetElapsed updates the timer. Must be called on the fyne goroutine.
func (p *DashboardPage) SetElapsed(d time.Duration) {
	p.timerText.Text = usecase.FormatElapsed(d)
	p.timerText.Refresh()
}

// Sink returns a snapshot sink that renders on the fyne goroutine.
func (p *DashboardPage) Sink() usecase.Sink {
	return func(s scrape.State) {
		fyne.Do(func() { p.Render(s) })
	}
}

// ElapsedSink returns a callback for usecase.ElapsedTimer.
func (p *DashboardPage) ElapsedSink() func(time.Duration) {
	return func(d time.Duration) {
		fyne.Do(func() { p.SetElapsed(d) })
	}
}

func caption(text string) fyne.CanvasObject {
	return widget.NewLabelWithStyle(text, fyne.TextAlignCenter, fyne.TextStyle{})
}

func badgeColor(phase scrape.Phase) color.Color {
	switch phase {
	case scrape.PhaseRunning:
		return theme.Color(theme.ColorNameSuccess)
	case scrape.PhasePaused:
		return theme.Color(theme.ColorNameWarning)
	}
	return theme.Color(theme.ColorNameDisabled)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
		return
	}
	b.Disable()
}
