package idletimer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const guild = snowflake.ID(1)

func TestArm_FiresOnceAfterDelay(t *testing.T) {
	m := NewManager()

	fired := make(chan struct{}, 1)
	m.Arm(guild, 10*time.Millisecond, func() { fired <- struct{}{} })

	if !m.Armed(guild) {
		t.Fatal("expected timer armed")
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	if m.Armed(guild) {
		t.Error("fired timer must be removed")
	}
}

func TestArm_SupersedesPreviousTimer(t *testing.T) {
	m := NewManager()

	var stale atomic.Int32
	fired := make(chan struct{}, 1)

	m.Arm(guild, 10*time.Millisecond, func() { stale.Add(1) })
	m.Arm(guild, 30*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("replacement timer did not fire")
	}

	// Give the stale callback a chance to run if cancellation failed.
	time.Sleep(20 * time.Millisecond)
	if stale.Load() != 0 {
		t.Error("superseded timer fired")
	}
}

func TestCancel_SuppressesFire(t *testing.T) {
	m := NewManager()

	var fired atomic.Int32
	m.Arm(guild, 20*time.Millisecond, func() { fired.Add(1) })
	m.Cancel(guild)

	if m.Armed(guild) {
		t.Error("expected timer removed")
	}

	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled timer fired")
	}
}

func TestCancel_Idempotent(t *testing.T) {
	m := NewManager()

	m.Cancel(guild)
	m.Arm(guild, time.Hour, func() {})
	m.Cancel(guild)
	m.Cancel(guild)

	if m.Armed(guild) {
		t.Error("expected no timer")
	}
}

func TestTimersAreIndependentPerGuild(t *testing.T) {
	m := NewManager()
	other := snowflake.ID(2)

	fired := make(chan struct{}, 1)
	m.Arm(guild, 10*time.Millisecond, func() { fired <- struct{}{} })
	m.Arm(other, time.Hour, func() {})

	m.Cancel(other)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("cancelling one guild must not stop another's timer")
	}

	if m.Armed(other) {
		t.Error("expected other guild's timer cancelled")
	}
}
