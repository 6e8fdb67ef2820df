package pager

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	views []View
}

func (r *recorder) update(view View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return nil
}

func (r *recorder) all() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]View(nil), r.views...)
}

func testPages(n int) []*discordgo.MessageEmbed {
	pages := make([]*discordgo.MessageEmbed, n)
	for i := range pages {
		pages[i] = &discordgo.MessageEmbed{Title: fmt.Sprintf("page-%d", i+1)}
	}
	return pages
}

func TestOpenSinglePageIsImmediatelyTerminal(t *testing.T) {
	m := NewManager()
	rec := &recorder{}

	s := m.Open("U1", testPages(1), rec.update)

	assert.Equal(t, StateClosed, s.State())
	view := s.View()
	assert.Empty(t, view.Components, "single page must not render controls")

	_, live := m.Get(s.ID)
	assert.False(t, live, "terminal session must not be registered")
}

func TestOpenZeroPagesRendersOneEmptyPage(t *testing.T) {
	m := NewManager()
	rec := &recorder{}

	s := m.Open("U1", nil, rec.update)

	assert.Equal(t, StateClosed, s.State())
	var view View
	require.NotPanics(t, func() { view = s.View() })
	require.NotNil(t, view.Embed)
	assert.Equal(t, "Page 1 of 1", view.Embed.Footer.Text)
	assert.Empty(t, view.Components)

	_, live := m.Get(s.ID)
	assert.False(t, live)
}

func TestNextAndPrevFlipPages(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	s := m.Open("U1", testPages(3), rec.update)

	require.NoError(t, s.Next("U1"))
	require.NoError(t, s.Next("U1"))
	assert.Equal(t, 2, s.Index())

	require.NoError(t, s.Prev("U1"))
	assert.Equal(t, 1, s.Index())

	views := rec.all()
	require.Len(t, views, 3)
	assert.Equal(t, "page-2", views[0].Embed.Title)
	assert.Equal(t, "page-3", views[1].Embed.Title)
	assert.Equal(t, "page-2", views[2].Embed.Title)
	assert.Equal(t, "Page 2 of 3", views[2].Embed.Footer.Text)
}

func TestNavigationPastBoundsIsNoOp(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	s := m.Open("U1", testPages(2), rec.update)

	require.NoError(t, s.Prev("U1"))
	assert.Equal(t, 0, s.Index())
	assert.Empty(t, rec.all(), "no redraw for an out-of-bounds press")

	require.NoError(t, s.Next("U1"))
	require.NoError(t, s.Next("U1"))
	assert.Equal(t, 1, s.Index())
	assert.Len(t, rec.all(), 1, "only the in-bounds press redraws")
}

func TestControlsDisabledAtBounds(t *testing.T) {
	m := NewManager()
	s := m.Open("U1", testPages(2), (&recorder{}).update)

	row := s.View().Components[0].(discordgo.ActionsRow)
	prev := row.Components[0].(discordgo.Button)
	next := row.Components[1].(discordgo.Button)
	assert.True(t, prev.Disabled)
	assert.False(t, next.Disabled)

	require.NoError(t, s.Next("U1"))
	row = s.View().Components[0].(discordgo.ActionsRow)
	assert.False(t, row.Components[0].(discordgo.Button).Disabled)
	assert.True(t, row.Components[1].(discordgo.Button).Disabled)
}

func TestNonOwnerPressesAreRejected(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	s := m.Open("U1", testPages(3), rec.update)

	assert.ErrorIs(t, s.Next("U2"), ErrNotOwner)
	assert.ErrorIs(t, s.Close("U2"), ErrNotOwner)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, StateActive, s.State())
	assert.Empty(t, rec.all())
}

func TestCloseRemovesControlsAndSession(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	s := m.Open("U1", testPages(3), rec.update)

	require.NoError(t, s.Close("U1"))
	assert.Equal(t, StateClosed, s.State())

	views := rec.all()
	require.Len(t, views, 1)
	assert.True(t, views[0].Done)
	assert.Empty(t, views[0].Components)

	_, live := m.Get(s.ID)
	assert.False(t, live)

	assert.ErrorIs(t, s.Next("U1"), ErrEnded)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	m := NewManager()
	m.ttl = 30 * time.Millisecond
	rec := &recorder{}
	s := m.Open("U1", testPages(3), rec.update)

	require.Eventually(t, func() bool {
		return s.State() == StateExpired
	}, time.Second, 5*time.Millisecond)

	views := rec.all()
	require.Len(t, views, 1)
	assert.True(t, views[0].Done)
	assert.Empty(t, views[0].Components)

	_, live := m.Get(s.ID)
	assert.False(t, live)

	assert.ErrorIs(t, s.Next("U1"), ErrEnded)
}

func TestTTLIsAbsoluteNotSliding(t *testing.T) {
	m := NewManager()
	m.ttl = 60 * time.Millisecond
	s := m.Open("U1", testPages(5), (&recorder{}).update)

	// Keep pressing; activity must not push the deadline out.
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) && s.State() == StateActive {
		_ = s.Next("U1")
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, StateExpired, s.State())
}

func TestManagerHandleRoutesByCustomID(t *testing.T) {
	m := NewManager()
	rec := &recorder{}
	s := m.Open("U1", testPages(3), rec.update)

	handled, err := m.Handle("U1", "pager:"+s.ID+":next")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, s.Index())

	handled, err = m.Handle("U2", "pager:"+s.ID+":next")
	assert.True(t, handled)
	assert.ErrorIs(t, err, ErrNotOwner)

	handled, err = m.Handle("U1", "unrelated-button")
	require.NoError(t, err)
	assert.False(t, handled)

	handled, err = m.Handle("U1", "pager:stale-session-id:next")
	assert.True(t, handled, "stale pager controls are still pager controls")
	assert.ErrorIs(t, err, ErrEnded)
}

func TestChunk(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%d", i)
	}

	pages := Chunk(lines, 10)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 10)
	assert.Len(t, pages[1], 10)
	assert.Len(t, pages[2], 5)

	assert.Len(t, Chunk(nil, 10), 1, "empty input still yields one empty page")
}
