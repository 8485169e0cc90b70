package chat

import (
	"testing"
	"time"
)

func TestSession_Authenticate(t *testing.T) {
	sess := NewSession("s1")

	if _, ok := sess.Username(); ok {
		t.Error("Username() should report ok=false before authentication")
	}

	sess.Authenticate("alice")

	username, ok := sess.Username()
	if !ok || username != "alice" {
		t.Errorf("Username() = %q, %v, want alice, true", username, ok)
	}
}

func TestSession_DeliverAndReceive(t *testing.T) {
	sess := NewSession("s1")

	n := Notification{Kind: KindMessage, Room: "lobby", Username: "alice", Msg: "hi"}
	if !sess.deliver(n) {
		t.Fatal("deliver() = false, want true")
	}

	select {
	case got := <-sess.Out():
		if got.Msg != "hi" || got.Room != "lobby" {
			t.Errorf("received %+v, want %+v", got, n)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestSession_DeliverDropsWhenFull(t *testing.T) {
	sess := NewSession("s1")

	for i := 0; i < sendQueueSize; i++ {
		if !sess.deliver(Notification{Kind: KindMessage, Msg: "fill"}) {
			t.Fatalf("deliver() = false at %d, queue should have room", i)
		}
	}

	if sess.deliver(Notification{Kind: KindMessage, Msg: "overflow"}) {
		t.Error("deliver() = true on a full queue, want false")
	}

	// Draining one slot makes room again.
	<-sess.Out()
	if !sess.deliver(Notification{Kind: KindMessage, Msg: "again"}) {
		t.Error("deliver() = false after draining, want true")
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	sess := NewSession("s1")
	sess.close()
	sess.close() // must not panic

	if sess.deliver(Notification{Kind: KindMessage, Msg: "late"}) {
		t.Error("deliver() = true on a closed session, want false")
	}

	// Out must be closed so a transport write loop terminates.
	if _, open := <-sess.Out(); open {
		t.Error("Out() should be closed")
	}
}
