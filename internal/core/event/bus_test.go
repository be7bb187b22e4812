package event

import "testing"

func TestTopicDeliversNextTick(t *testing.T) {
	topic := NewTopic[int]()
	var got []int
	topic.Subscribe(func(v int) { got = append(got, v) })

	topic.Emit(1)
	topic.Emit(2)
	if n := topic.Dispatch(); n != 0 {
		t.Fatalf("dispatched %d before swap", n)
	}

	topic.Swap()
	topic.Emit(3)
	if n := topic.Dispatch(); n != 2 {
		t.Fatalf("dispatched %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v", got)
	}
	if topic.Pending() != 1 {
		t.Fatalf("pending %d", topic.Pending())
	}

	topic.Swap()
	topic.Dispatch()
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}
