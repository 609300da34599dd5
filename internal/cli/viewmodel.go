package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/interact"
	"github.com/matzehuels/classview/pkg/render"
	"github.com/matzehuels/classview/pkg/view"
)

// Messages delivered to the view model.
type (
	sessionMsg  view.Event
	reloadMsg   struct{}
	loadDoneMsg struct{ err error }
)

// Rows reserved above and below the canvas.
const (
	headerRows = 1
	footerRows = 1
)

// homeViewport leaves a small margin around the layout origin.
var homeViewport = render.DefaultViewport.Pan(-2, -1)

// viewModel is the bubbletea model of the terminal surface. Mouse events
// are translated to layout coordinates and fed to the session as pointer
// events.
type viewModel struct {
	ctx     context.Context
	session *view.Session
	file    string

	vp       render.Viewport
	width    int
	height   int
	dragging bool
	notice   string
}

func newViewModel(ctx context.Context, s *view.Session, file string) viewModel {
	return viewModel{ctx: ctx, session: s, file: file, vp: homeViewport}
}

func (m viewModel) Init() tea.Cmd {
	return m.load()
}

// load fetches the file through the session. Stale results are dropped by
// the session itself.
func (m viewModel) load() tea.Cmd {
	ctx, s, file := m.ctx, m.session, m.file
	return func() tea.Msg {
		return loadDoneMsg{err: s.Load(ctx, file)}
	}
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.session.Release()
			m.dragging = false
		case "r":
			m.notice = ""
			return m, m.load()
		case "left", "h":
			m.vp = m.vp.Pan(-4, 0)
		case "right", "l":
			m.vp = m.vp.Pan(4, 0)
		case "up", "k":
			m.vp = m.vp.Pan(0, -2)
		case "down", "j":
			m.vp = m.vp.Pan(0, 2)
		case "0", "home":
			m.vp = homeViewport
		}

	case tea.MouseMsg:
		m = m.pointer(msg)

	case reloadMsg:
		return m, m.load()

	case loadDoneMsg:
		switch {
		case msg.err == nil:
			m.notice = ""
		case errors.Is(msg.err, view.ErrStale), errors.Is(msg.err, view.ErrClosed):
		default:
			m.notice = apperrors.UserMessage(msg.err)
		}

	case sessionMsg:
		// The next View call reads the session.
	}
	return m, nil
}

// pointer routes a mouse event to the session.
func (m viewModel) pointer(msg tea.MouseMsg) viewModel {
	p := m.vp.Point(msg.X, msg.Y-headerRows)
	ev := interact.PointerEvent{X: p.X, Y: p.Y}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ev.Type = interact.PointerDown
	case msg.Action == tea.MouseActionMotion && m.dragging:
		ev.Type = interact.PointerMove
	case msg.Action == tea.MouseActionRelease && m.dragging:
		ev.Type = interact.PointerUp
	default:
		return m
	}

	n, err := m.session.Pointer(ev)
	if err != nil {
		m.notice = apperrors.UserMessage(err)
		return m
	}
	switch ev.Type {
	case interact.PointerDown:
		m.dragging = n != nil
		if m.dragging {
			m.notice = ""
		}
	case interact.PointerUp:
		m.dragging = false
		if n != nil && n.Manual {
			m.notice = fmt.Sprintf("pinned %s at (%.0f, %.0f)", n.ID, n.Position.X, n.Position.Y)
		}
	}
	return m
}

func (m viewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting…"
	}

	st := m.session.Status()
	canvas := render.NewCanvas(m.width, max(m.height-headerRows-footerRows, 0))
	canvas.Draw(st.Graph, st.NodeSize, m.vp, st.Active)

	var b strings.Builder
	b.WriteString(m.header(st))
	b.WriteByte('\n')
	b.WriteString(canvas.Render(styleCell))
	b.WriteByte('\n')
	b.WriteString(m.footer(st))
	return b.String()
}

func (m viewModel) header(st view.Status) string {
	state := st.State.String()
	switch st.State {
	case view.StateReady:
		state = styleCached.Render(state)
	case view.StateUnavailable:
		state = styleIconError.Render("data unavailable")
	default:
		state = StyleDim.Render(state)
	}
	parts := []string{
		StyleTitle.Render(appName),
		StyleValue.Render(m.file),
		state,
		StyleDim.Render(fmt.Sprintf("%d classes", st.Graph.NodeCount())),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m viewModel) footer(st view.Status) string {
	switch {
	case m.notice != "":
		return StyleWarning.Render(m.notice)
	case st.Active != "":
		line := "dragging " + st.Active
		if parents := st.Graph.Parents(st.Active); len(parents) > 0 {
			line += " · subclass of " + strings.Join(parents, ", ")
		}
		return StyleWarning.Render(line)
	case st.State == view.StateReady && st.Graph.IsEmpty():
		return StyleDim.Render("no class hierarchy to show")
	default:
		return StyleDim.Render("drag to move · arrows pan · r reload · esc drop · q quit")
	}
}
