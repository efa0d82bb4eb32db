package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type noticeLevel int

const (
	noticeLoading noticeLevel = iota
	noticeDismiss
	noticeSuccess
	noticeError
)

type noticeMsg struct {
	level noticeLevel
	id    string
	text  string
}

// Notifier forwards coordinator notifications to a running program. It can
// be handed to a Coordinator before the program exists; notifications sent
// while no program is attached are dropped.
type Notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) attach(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

func (n *Notifier) detach() {
	n.attach(nil)
}

func (n *Notifier) emit(msg noticeMsg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (n *Notifier) Loading(id, message string) {
	n.emit(noticeMsg{level: noticeLoading, id: id, text: message})
}

func (n *Notifier) Dismiss(id string) {
	n.emit(noticeMsg{level: noticeDismiss, id: id})
}

func (n *Notifier) Success(message string) {
	n.emit(noticeMsg{level: noticeSuccess, text: message})
}

func (n *Notifier) Error(message string) {
	n.emit(noticeMsg{level: noticeError, text: message})
}
