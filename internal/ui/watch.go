package ui

import (
	"context"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/widgetchat/internal/connection"
	"github.com/zhubert/widgetchat/internal/keys"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/message"
	"github.com/zhubert/widgetchat/internal/notification"
)

// Connection is the part of connection.Adapter the watch view drives.
type Connection interface {
	Status() connection.Status
	Retry(ctx context.Context) bool
	Subscribe(fn func(connection.Status)) (unsubscribe func())
}

// StatusMsg reports that the connection status changed.
type StatusMsg struct{}

// IncomingMsg carries a message received from the transport.
type IncomingMsg struct {
	Message message.Message
}

// RetryDoneMsg reports the outcome of a manual retry.
type RetryDoneMsg struct {
	Issued bool
}

type incomingClosedMsg struct{}

// WatchModel follows a live connection.
type WatchModel struct {
	conn     Connection
	incoming <-chan message.Message
	changes  chan struct{}
	unsub    func()
	log      *slog.Logger

	viewport viewport.Model
	footer   *Footer
	status   connection.Status
	messages []message.Message

	title  string
	notify bool
	width  int
	height int
}

// WatchOption configures a WatchModel.
type WatchOption func(*WatchModel)

// WithTitle sets the header text.
func WithTitle(title string) WatchOption {
	return func(m *WatchModel) { m.title = title }
}

// WithNotifications enables desktop notifications for incoming messages and
// connection loss.
func WithNotifications(enabled bool) WatchOption {
	return func(m *WatchModel) { m.notify = enabled }
}

// WithHistory seeds the view with already known messages.
func WithHistory(msgs []message.Message) WatchOption {
	return func(m *WatchModel) { m.messages = append(m.messages, msgs...) }
}

// NewWatchModel creates a watch view over conn. incoming may be nil.
func NewWatchModel(conn Connection, incoming <-chan message.Message, opts ...WatchOption) *WatchModel {
	m := &WatchModel{
		conn:     conn,
		incoming: incoming,
		changes:  make(chan struct{}, 1),
		log:      logger.ComponentLogger("ui"),
		viewport: viewport.New(),
		footer:   NewFooter(),
		title:    "widgetchat",
		width:    DefaultWrapWidth,
	}
	for _, opt := range opts {
		opt(m)
	}

	// Coalesce change signals; the model re-reads the snapshot anyway.
	m.unsub = conn.Subscribe(func(connection.Status) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.status = conn.Status()
	m.footer.SetStatus(m.status)
	return m
}

// Init implements tea.Model.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForStatus(), m.waitForMessage())
}

func (m *WatchModel) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return StatusMsg{}
	}
}

func (m *WatchModel) waitForMessage() tea.Cmd {
	if m.incoming == nil {
		return nil
	}
	ch := m.incoming
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return incomingClosedMsg{}
		}
		return IncomingMsg{Message: msg}
	}
}

func (m *WatchModel) retry() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		return RetryDoneMsg{Issued: conn.Retry(context.Background())}
	}
}

// Update implements tea.Model.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(max(msg.Height-HeaderHeight-FooterHeight, 1))
		m.footer.SetWidth(msg.Width)
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.Quit, keys.CtrlC:
			m.Close()
			return m, tea.Quit
		case keys.Retry, keys.CtrlR:
			if !m.status.CanRetry() {
				m.log.Debug("retry key ignored", "state", m.status.State.String())
				return m, nil
			}
			return m, m.retry()
		case keys.CtrlL:
			m.messages = nil
			m.refresh()
			return m, nil
		case keys.Up:
			m.viewport.ScrollUp(1)
			return m, nil
		case keys.Down:
			m.viewport.ScrollDown(1)
			return m, nil
		case keys.PgUp:
			m.viewport.PageUp()
			return m, nil
		case keys.PgDown:
			m.viewport.PageDown()
			return m, nil
		case keys.Home:
			m.viewport.GotoTop()
			return m, nil
		case keys.End:
			m.viewport.GotoBottom()
			return m, nil
		}

	case StatusMsg:
		prev := m.status
		m.status = m.conn.Status()
		m.footer.SetStatus(m.status)
		cmds := []tea.Cmd{m.waitForStatus()}
		if m.notify && prev.IsConnected && !m.status.IsConnected {
			reason := m.status.Error
			cmds = append(cmds, func() tea.Msg {
				notification.ConnectionLost(reason)
				return nil
			})
		}
		return m, tea.Batch(cmds...)

	case IncomingMsg:
		m.append(msg.Message)
		cmds := []tea.Cmd{m.waitForMessage()}
		if m.notify && !msg.Message.Self {
			in := msg.Message
			cmds = append(cmds, func() tea.Msg {
				notification.IncomingMessage(in)
				return nil
			})
		}
		return m, tea.Batch(cmds...)

	case incomingClosedMsg:
		m.log.Info("message stream closed")
		return m, nil

	case RetryDoneMsg:
		if !msg.Issued {
			m.log.Debug("retry suppressed by adapter")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *WatchModel) append(msg message.Message) {
	m.messages = append(m.messages, msg)
	if over := len(m.messages) - MaxWatchMessages; over > 0 {
		m.messages = append([]message.Message(nil), m.messages[over:]...)
	}
	m.refresh()
}

func (m *WatchModel) refresh() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(MediaMetaStyle.Render("Waiting for messages…"))
		return
	}
	rendered := make([]string, len(m.messages))
	for i, msg := range m.messages {
		rendered[i] = RenderMessage(msg, m.width)
	}
	m.viewport.SetContent(strings.Join(rendered, "\n\n"))
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *WatchModel) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m *WatchModel) render() string {
	header := HeaderStyle.Width(m.width).Render(m.title)
	return header + "\n" + m.viewport.View() + "\n" + m.footer.View()
}

// Messages returns the messages currently shown.
func (m *WatchModel) Messages() []message.Message {
	return m.messages
}

// Status returns the last status the view rendered.
func (m *WatchModel) Status() connection.Status {
	return m.status
}

// Close removes the view's status subscription. It does not close the
// connection.
func (m *WatchModel) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}
