package events_test

import (
	"testing"

	"github.com/ardanlabs/microchain/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")

	if again := evts.Acquire("one"); again != ch1 {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	evts.Send("state: mined")

	for _, ch := range []chan string{ch1, ch2} {
		if msg := <-ch; msg != "state: mined" {
			t.Fatalf("Should receive the event, got %q", msg)
		}
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release a channel: %s", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close a released channel.")
	}

	if err := evts.Release("one"); err == nil {
		t.Fatalf("Should not be able to release an unknown id.")
	}

	evts.Shutdown()
	if _, open := <-ch2; open {
		t.Fatalf("Should close every channel on shutdown.")
	}
}
