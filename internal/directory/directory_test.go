package directory

import "testing"

func TestRecordJoinLastWriteWins(t *testing.T) {
	d := NewDirectory()

	d.RecordJoin(42, "srv-a")
	d.RecordJoin(42, "srv-b")

	server, ok := d.CurrentServer(42)
	if !ok || server != "srv-b" {
		t.Fatalf("expected srv-b, got %q ok=%v", server, ok)
	}
	if d.SessionCount() != 1 {
		t.Fatalf("expected one session, got %d", d.SessionCount())
	}
}

func TestRecordLeave(t *testing.T) {
	d := NewDirectory()
	d.RecordJoin(42, "srv-a")
	d.RecordLeave(42)

	if _, ok := d.CurrentServer(42); ok {
		t.Fatalf("expected absent session after leave")
	}

	// 없는 유저 leave 는 no-op
	d.RecordLeave(99)
}

func TestJoinCounterAlwaysIncrements(t *testing.T) {
	d := NewDirectory()

	if got := d.RecordJoin(42, "srv-a"); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}
	if got := d.RecordJoin(42, "srv-b"); got != 2 {
		t.Fatalf("expected count 2 across servers, got %d", got)
	}

	// leave 후에도 카운터는 유지된다
	d.RecordLeave(42)
	if got := d.RecordJoin(42, "srv-a"); got != 3 {
		t.Fatalf("expected count 3 after rejoin, got %d", got)
	}
	if d.JoinCount(42) != 3 {
		t.Fatalf("expected JoinCount 3, got %d", d.JoinCount(42))
	}
}

func TestJoinCountUnknownUser(t *testing.T) {
	d := NewDirectory()
	if d.JoinCount(7) != 0 {
		t.Fatalf("expected zero count for unknown user")
	}
}
