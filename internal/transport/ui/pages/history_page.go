// History page implementation.
package pages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/domain/history"
	"github.com/whhaicheng/news-scraper/internal/domain/report"
)

// historyPageLimit caps the sessions listed on the page.
const historyPageLimit = 100

// HistoryPage lists recorded run sessions.
type HistoryPage struct {
	win          fyne.Window
	historyUC    *usecase.HistoryUseCase
	list         *widget.List
	sessions     []*history.Session
	summaryLabel *widget.Label
	exporter     *usecase.ExportUseCase
	ctx          context.Context
}

// NewHistoryPage creates the history page.
// Returns both the page instance and its canvas object for external refresh control.
// A nil historyUC shows that recording is disabled; a nil exporter hides
// the export button.
func NewHistoryPage(win fyne.Window, historyUC *usecase.HistoryUseCase, exporter *usecase.ExportUseCase) (*HistoryPage, fyne.CanvasObject) {
	page := &HistoryPage{
		win:       win,
		historyUC: historyUC,
		exporter:  exporter,
		ctx:       context.Background(),
	}

	if historyUC == nil {
		return page, container.NewCenter(widget.NewLabel("History recording is disabled"))
	}

	page.list = widget.NewList(
		func() int {
			return len(page.sessions)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Run Session")
			btnLogs := widget.NewButtonWithIcon("Logs", theme.DocumentIcon(), nil)
			btnLogs.Importance = widget.LowImportance
			return container.NewHBox(label, layout.NewSpacer(), btnLogs)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(page.sessions) {
				return
			}
			session := page.sessions[id]
			hbox, ok := obj.(*fyne.Container)
			if !ok || len(hbox.Objects) < 3 {
				return
			}
			if label, ok := hbox.Objects[0].(*widget.Label); ok {
				label.SetText(SessionLine(session))
			}
			if btn, ok := hbox.Objects[2].(*widget.Button); ok {
				btn.OnTapped = func() {
					page.onShowLogs(session)
				}
			}
		},
	)

	page.summaryLabel = widget.NewLabel("")
	btnRefresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		page.Refresh()
	})
	toolbar := container.NewHBox(page.summaryLabel, layout.NewSpacer(), btnRefresh)

	page.Refresh()
	return page, container.NewBorder(toolbar, nil, nil, nil, page.list)
}

// Refresh reloads the sessions from the store.
func (p *HistoryPage) Refresh() {
	if p.historyUC == nil {
		return
	}
	sessions, err := p.historyUC.ListSessions(p.ctx, historyPageLimit)
	if err != nil {
		slog.Error("History: Failed to load sessions", "error", err)
		if p.win != nil {
			dialog.ShowError(err, p.win)
		}
		return
	}
	p.sessions = sessions
	p.summaryLabel.SetText(fmt.Sprintf("%d sessions", len(sessions)))
	p.list.Refresh()
}

// Len returns the number of listed sessions.
func (p *HistoryPage) Len() int {
	return len(p.sessions)
}

func (p *HistoryPage) onShowLogs(session *history.Session) {
	_, logs, err := p.historyUC.GetSessionLogs(p.ctx, session.ID)
	if err != nil {
		dialog.ShowError(err, p.win)
		return
	}

	lines := make([]string, len(logs))
	for i, rec := range logs {
		lines[i] = rec.Entry().String()
	}
	text := widget.NewMultiLineEntry()
	text.SetText(strings.Join(lines, "\n"))
	text.Disable()

	var content fyne.CanvasObject = container.NewGridWrap(fyne.NewSize(420, 300), text)
	if p.exporter != nil {
		btnExport := widget.NewButtonWithIcon("Export Markdown", theme.DocumentSaveIcon(), func() {
			p.onExport(session)
		})
		content = container.NewBorder(nil, btnExport, nil, nil, content)
	}
	dialog.ShowCustom("Run "+shortID(session.ID), "Close", content, p.win)
}

func (p *HistoryPage) onExport(session *history.Session) {
	rpt, err := p.exporter.ExportSession(p.ctx, session.ID, report.FormatMarkdown)
	if err != nil {
		slog.Error("History: Export failed", "run_id", session.ID, "error", err)
		dialog.ShowError(err, p.win)
		return
	}
	dialog.ShowInformation("Export Complete", "Report saved to "+rpt.FilePath, p.win)
}

// SessionLine renders a one-line session summary.
func SessionLine(s *history.Session) string {
	return fmt.Sprintf("%s | %s | %d units | %s | %s",
		shortID(s.ID),
		s.Phase.Label(),
		s.WorkCount,
		humanize.Time(s.StartedAt),
		s.Duration().Round(time.Second),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
