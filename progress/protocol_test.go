package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestConsume_OrderAndCounts(t *testing.T) {
	const n = 25
	c := NewChannels()

	go func() {
		defer c.Close()
		c.SendTotal(n)
		for i := 1; i <= n; i++ {
			c.Inc(i)
		}
		c.Done(n)
	}()

	var events []Event
	total, err := Consume(context.Background(), c, func(ev Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if total != n {
		t.Errorf("Expected total %d, got %d", n, total)
	}

	if len(events) != n+2 {
		t.Fatalf("Expected %d events, got %d", n+2, len(events))
	}
	if events[0].Kind != EventStarted || events[0].N != n {
		t.Errorf("Expected first event Started(%d), got %v(%d)", n, events[0].Kind, events[0].N)
	}
	units := 0
	for _, ev := range events[1 : len(events)-1] {
		if ev.Kind != EventUnit {
			t.Errorf("Expected Unit event, got %v", ev.Kind)
		}
		units++
	}
	if units != n {
		t.Errorf("Expected %d Unit events, got %d", n, units)
	}
	last := events[len(events)-1]
	if last.Kind != EventFinished || last.N != n {
		t.Errorf("Expected last event Finished(%d), got %v(%d)", n, last.Kind, last.N)
	}
}

func TestChannels_SendTotalOnlyOnce(t *testing.T) {
	c := NewChannels()
	c.SendTotal(3)
	c.SendTotal(7)

	if got := <-c.Total; got != 3 {
		t.Errorf("Expected first total 3, got %d", got)
	}
	select {
	case v := <-c.Total:
		t.Errorf("Expected no second total, got %d", v)
	default:
	}
}

func TestChannels_ProducerBlocksUntilDrained(t *testing.T) {
	c := NewChannels()
	c.Inc(1) // fills the single slot

	sent := make(chan struct{})
	go func() {
		c.Inc(2)
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("Expected second Inc to block while the first is undrained")
	case <-time.After(50 * time.Millisecond):
	}

	if msg := <-c.Events; msg.Index != 1 {
		t.Errorf("Expected index 1, got %d", msg.Index)
	}

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("Expected second Inc to complete after drain")
	}
}

func TestConsume_AbortedBeforeTotal(t *testing.T) {
	c := NewChannels()
	c.Close()

	called := false
	_, err := Consume(context.Background(), c, func(Event) { called = true })
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Expected ErrAborted, got %v", err)
	}
	if called {
		t.Error("Expected no events for an aborted stream")
	}
}

func TestConsume_AbortedMidStream(t *testing.T) {
	c := NewChannels()
	go func() {
		defer c.Close()
		c.SendTotal(5)
		c.Inc(1)
	}()

	var mu sync.Mutex
	var kinds []EventKind
	_, err := Consume(context.Background(), c, func(ev Event) {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Expected ErrAborted, got %v", err)
	}
	for _, k := range kinds {
		if k == EventFinished {
			t.Error("Expected no Finished event for an aborted stream")
		}
	}
}

func TestConsume_ContextCancelled(t *testing.T) {
	c := NewChannels()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Consume(ctx, c, func(Event) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestChannels_DrainUnblocksProducer(t *testing.T) {
	c := NewChannels()
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		defer c.Close()
		c.SendTotal(10)
		for i := 1; i <= 10; i++ {
			c.Inc(i)
		}
		c.Done(10)
	}()

	go c.Drain()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Producer still blocked after Drain")
	}
}
