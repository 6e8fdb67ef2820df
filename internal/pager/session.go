// Package pager runs button-driven pagination sessions for long embed
// listings. A session belongs to the user who opened it, flips pages in
// place by editing the original message, and ends either by the owner
// closing it or by an absolute lifetime expiring. Expiry is not extended
// by activity.
package pager

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	// PageSize is the number of entries rendered per page.
	PageSize = 10

	// TTL is the absolute session lifetime, measured from creation.
	TTL = 120 * time.Second

	customIDPrefix = "pager"
)

var (
	// ErrNotOwner is returned when someone other than the session owner
	// presses a control. The adapter replies ephemerally; the session is
	// untouched.
	ErrNotOwner = errors.New("pager: control pressed by non-owner")

	// ErrEnded is returned for presses on a session that already expired
	// or closed.
	ErrEnded = errors.New("pager: session ended")
)

// State is the session lifecycle phase. Expired and Closed are terminal.
type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
	StateClosed  State = "closed"
)

// View is what the session wants shown: the current page embed and the
// control row. Done marks a terminal render, with controls removed.
type View struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Done       bool
}

// UpdateFunc pushes a view to the platform, editing the session's message.
type UpdateFunc func(view View) error

// Session is one pagination run over a fixed set of pre-rendered pages.
type Session struct {
	ID      string
	OwnerID string

	mu     sync.Mutex
	pages  []*discordgo.MessageEmbed
	index  int
	state  State
	update UpdateFunc
	timer  *time.Timer
	onEnd  func(s *Session)
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the zero-based current page.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// View renders the current page. The embed footer carries the page counter;
// controls are disabled at the bounds.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	embed := s.pages[s.index]
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d of %d", s.index+1, len(s.pages)),
	}

	if s.state != StateActive || len(s.pages) == 1 {
		return View{Embed: embed, Done: s.state != StateActive}
	}

	return View{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Previous",
						Style:    discordgo.SecondaryButton,
						CustomID: s.customID("prev"),
						Disabled: s.index == 0,
					},
					discordgo.Button{
						Label:    "Next",
						Style:    discordgo.SecondaryButton,
						CustomID: s.customID("next"),
						Disabled: s.index == len(s.pages)-1,
					},
					discordgo.Button{
						Label:    "Close",
						Style:    discordgo.DangerButton,
						CustomID: s.customID("close"),
					},
				},
			},
		},
	}
}

func (s *Session) customID(action string) string {
	return strings.Join([]string{customIDPrefix, s.ID, action}, ":")
}

// Next advances one page. At the last page the press is a no-op.
func (s *Session) Next(userID string) error {
	return s.step(userID, +1)
}

// Prev goes back one page. At the first page the press is a no-op.
func (s *Session) Prev(userID string) error {
	return s.step(userID, -1)
}

func (s *Session) step(userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrEnded
	}
	if userID != s.OwnerID {
		return ErrNotOwner
	}

	next := s.index + delta
	if next < 0 || next >= len(s.pages) {
		return nil
	}
	s.index = next
	return s.update(s.view())
}

// Close ends the session at the owner's request, removing the controls.
func (s *Session) Close(userID string) error {
	s.mu.Lock()

	if s.state != StateActive {
		s.mu.Unlock()
		return ErrEnded
	}
	if userID != s.OwnerID {
		s.mu.Unlock()
		return ErrNotOwner
	}

	s.state = StateClosed
	if s.timer != nil {
		s.timer.Stop()
	}
	view := s.view()
	update, onEnd := s.update, s.onEnd
	s.mu.Unlock()

	if onEnd != nil {
		onEnd(s)
	}
	return update(view)
}

// expire is the TTL path: same terminal render as Close, different state.
func (s *Session) expire() {
	s.mu.Lock()

	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.state = StateExpired
	view := s.view()
	update, onEnd := s.update, s.onEnd
	s.mu.Unlock()

	if onEnd != nil {
		onEnd(s)
	}
	// The message outlives the session; only the controls go away.
	_ = update(view)
}

// Manager tracks live sessions keyed by session id. Control custom ids
// carry the id, so component interactions route back without any session
// state on the wire.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      TTL,
	}
}

// Open starts a session over pre-rendered pages. Zero pages is treated as a
// single empty page. A session with at most one page is terminal from the
// start: no controls, no timer, nothing registered.
func (m *Manager) Open(ownerID string, pages []*discordgo.MessageEmbed, update UpdateFunc) *Session {
	if len(pages) == 0 {
		pages = []*discordgo.MessageEmbed{{}}
	}
	s := &Session{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		pages:   pages,
		state:   StateActive,
		update:  update,
	}

	if len(pages) <= 1 {
		s.state = StateClosed
		return s
	}

	s.onEnd = func(ended *Session) {
		m.mu.Lock()
		if m.sessions[ended.ID] == ended {
			delete(m.sessions, ended.ID)
		}
		m.mu.Unlock()
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.timer = time.AfterFunc(m.ttl, s.expire)
	return s
}

// Get returns a live session by id.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Handle routes a component press to its session. handled is false when the
// custom id is not a pager control, so other component handlers can take
// the event. Presses for a session that already ended (or that belonged to
// a previous process) return ErrEnded.
func (m *Manager) Handle(userID, customID string) (handled bool, err error) {
	sessionID, action, ok := parseCustomID(customID)
	if !ok {
		return false, nil
	}

	s, ok := m.Get(sessionID)
	if !ok {
		return true, ErrEnded
	}

	switch action {
	case "prev":
		return true, s.Prev(userID)
	case "next":
		return true, s.Next(userID)
	case "close":
		return true, s.Close(userID)
	default:
		return false, nil
	}
}

func parseCustomID(customID string) (sessionID, action string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// Chunk splits rendered lines into page-sized groups.
func Chunk(lines []string, size int) [][]string {
	if size <= 0 {
		size = PageSize
	}
	var pages [][]string
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	if pages == nil {
		pages = [][]string{{}}
	}
	return pages
}
