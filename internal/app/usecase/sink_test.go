package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/domain/notice"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

func TestFanOut(t *testing.T) {
	var a, b []scrape.Phase
	sink := FanOut(
		func(s scrape.State) { a = append(a, s.Phase) },
		nil,
		func(s scrape.State) { b = append(b, s.Phase) },
	)

	sink(scrape.State{Phase: scrape.PhaseRunning})
	sink(scrape.State{Phase: scrape.PhasePaused})

	want := []scrape.Phase{scrape.PhaseRunning, scrape.PhasePaused}
	assert.Equal(t, want, a)
	assert.Equal(t, want, b)
}

func TestRelay_AttachLater(t *testing.T) {
	fake := clock.NewFake(epoch)
	relay := NewRelay()
	c := NewRunController(relay.Publish, WithClock(fake))
	defer c.Close()

	c.Start()
	var got []int
	relay.Attach(nil)
	relay.Attach(func(s scrape.State) { got = append(got, s.WorkCount) })

	fake.Advance(4 * time.Second)
	assert.Equal(t, []int{1, 2}, got, "only snapshots after attach")
}

func TestNoticeSink_FollowsTransitions(t *testing.T) {
	fake := clock.NewFake(epoch)
	var kinds []notice.Kind
	var sink Sink
	c := NewRunController(func(s scrape.State) { sink(s) }, WithClock(fake))
	defer c.Close()
	sink = NoticeSink(c.Snapshot(), func(n notice.Notice) { kinds = append(kinds, n.Kind) })

	c.Start()
	fake.Advance(4 * time.Second)
	c.Pause()
	c.Pause()
	c.Resume()
	c.Stop()

	assert.Equal(t, []notice.Kind{
		notice.KindSuccess,
		notice.KindWarning,
		notice.KindInfo,
		notice.KindInfo,
	}, kinds)
}

func TestSnapshotQueue_PreservesOrder(t *testing.T) {
	q := NewSnapshotQueue()
	for i := 1; i <= 3; i++ {
		q.Push(scrape.State{WorkCount: i})
	}

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		s, ok := q.Pop(ctx)
		require.True(t, ok)
		assert.Equal(t, i, s.WorkCount)
	}
}

func TestSnapshotQueue_PopWaits(t *testing.T) {
	q := NewSnapshotQueue()
	got := make(chan int, 1)
	go func() {
		s, ok := q.Pop(context.Background())
		if ok {
			got <- s.WorkCount
		}
	}()

	q.Push(scrape.State{WorkCount: 7})
	select {
	case n := <-got:
		assert.Equal(t, 7, n)
	case <-time.After(time.Second):
		t.Fatal("Pop did not return")
	}
}

func TestSnapshotQueue_CloseAndCancel(t *testing.T) {
	q := NewSnapshotQueue()
	q.Push(scrape.State{WorkCount: 1})
	q.Close()
	q.Close()
	q.Push(scrape.State{WorkCount: 2})

	s, ok := q.Pop(context.Background())
	require.True(t, ok, "queued snapshots drain after close")
	assert.Equal(t, 1, s.WorkCount)

	_, ok = q.Pop(context.Background())
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok = NewSnapshotQueue().Pop(ctx)
	assert.False(t, ok)
}
