// Package progress connects a running pipeline phase to whatever reports on
// it. The worker side sends one total and then a stream of increments over two
// channels; the reporting side drains them.
package progress

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted is returned by Consume when the producer closed the channels
// before sending Done, which happens when the phase failed.
var ErrAborted = errors.New("progress stream ended before completion")

// MsgKind tells increments from the final message.
type MsgKind int

const (
	MsgInc MsgKind = iota
	MsgDone
)

// Msg travels on the progress channel
type Msg struct {
	Kind  MsgKind
	Index int
}

// Inc reports one more finished unit of work
func Inc(index int) Msg { return Msg{Kind: MsgInc, Index: index} }

// Done terminates the stream
func Done() Msg { return Msg{Kind: MsgDone} }

// Channels is the pair of channels shared by producer and consumer.
//
// Total carries exactly one value. Events has capacity one, so a send blocks
// until the consumer has taken the previous message and no update is lost.
type Channels struct {
	Total  chan int
	Events chan Msg

	totalOnce sync.Once
	closeOnce sync.Once
}

// NewChannels returns ready to use channels
func NewChannels() *Channels {
	return &Channels{
		Total:  make(chan int, 1),
		Events: make(chan Msg, 1),
	}
}

// SendTotal delivers the total. Later calls are ignored.
func (c *Channels) SendTotal(total int) {
	c.totalOnce.Do(func() { c.Total <- total })
}

// Inc blocks until the previous event was drained
func (c *Channels) Inc(index int) { c.Events <- Inc(index) }

// Done sends the final message
func (c *Channels) Done(int) { c.Events <- Done() }

// Close ends both channels. Producers defer it so that a failed phase never
// leaves the consumer waiting.
func (c *Channels) Close() {
	c.closeOnce.Do(func() {
		close(c.Total)
		close(c.Events)
	})
}

// Drain discards events until the producer closes the channels. Consumers
// that stop early run it so a blocked producer can finish.
func (c *Channels) Drain() {
	for range c.Events {
	}
}

// EventKind distinguishes the three observable events
type EventKind int

const (
	EventStarted EventKind = iota
	EventUnit
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventUnit:
		return "unit"
	case EventFinished:
		return "finished"
	}
	return "unknown"
}

// Event is what a reporter sees: one Started, any number of Unit, one Finished.
// N is the total for Started and Finished and the index for Unit.
type Event struct {
	Kind EventKind
	N    int
}

// Consume drains c, calling fn for every event in protocol order. It returns
// the total once Done is seen, or ErrAborted if the producer gave up first.
func Consume(ctx context.Context, c *Channels, fn func(Event)) (int, error) {
	var total int
	select {
	case t, ok := <-c.Total:
		if !ok {
			return 0, ErrAborted
		}
		total = t
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	fn(Event{Kind: EventStarted, N: total})

	for {
		select {
		case msg, ok := <-c.Events:
			if !ok {
				return total, ErrAborted
			}
			switch msg.Kind {
			case MsgInc:
				fn(Event{Kind: EventUnit, N: msg.Index})
			case MsgDone:
				fn(Event{Kind: EventFinished, N: total})
				return total, nil
			}
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
}
