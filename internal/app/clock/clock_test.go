package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFake_AdvanceFiresInOrder(t *testing.T) {
	f := NewFake(epoch)
	var order []int
	f.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	f.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	f.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	f.Advance(2 * time.Second)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, epoch.Add(2*time.Second), f.Now())

	f.Advance(time.Second)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, f.Pending())
}

func TestFake_StoppedTimerDoesNotFire(t *testing.T) {
	f := NewFake(epoch)
	fired := false
	tm := f.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	f.Advance(time.Minute)
	assert.False(t, fired)
}

func TestEvery_FixedDelay(t *testing.T) {
	f := NewFake(epoch)
	var ticks []time.Time
	tk := Every(f, 2*time.Second, func() { ticks = append(ticks, f.Now()) })

	f.Advance(7 * time.Second)
	assert.Equal(t, []time.Time{
		epoch.Add(2 * time.Second),
		epoch.Add(4 * time.Second),
		epoch.Add(6 * time.Second),
	}, ticks)
	assert.Equal(t, 1, f.Pending(), "exactly one pending firing")

	tk.Stop()
	assert.True(t, tk.Stopped())
	assert.Equal(t, 0, f.Pending())

	f.Advance(10 * time.Second)
	assert.Len(t, ticks, 3)
}

func TestEvery_StopFromCallback(t *testing.T) {
	f := NewFake(epoch)
	var count int
	var tk *Ticker
	tk = Every(f, time.Second, func() {
		count++
		if count == 2 {
			tk.Stop()
		}
	})

	f.Advance(5 * time.Second)
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, f.Pending())
}

func TestTicker_StopIsSafe(t *testing.T) {
	var nilTicker *Ticker
	assert.NotPanics(t, func() { nilTicker.Stop() })
	assert.True(t, nilTicker.Stopped())

	tk := Every(NewFake(epoch), time.Second, func() {})
	tk.Stop()
	assert.NotPanics(t, func() { tk.Stop() })
}

func TestEvery_SystemClock(t *testing.T) {
	var n atomic.Int32
	tk := Every(System, 5*time.Millisecond, func() { n.Add(1) })
	defer tk.Stop()

	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
}
