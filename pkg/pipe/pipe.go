// Package pipe provides a bounded single-producer, single-consumer handoff
// between pipeline stages.
package pipe

// Stage couples a bounded channel with the producer goroutine feeding it.
// The channel capacity throttles the producer to the pace of the consumer;
// closing the channel is the end-of-stream signal. The producer's final
// error is held until the consumer joins via Drain.
type Stage[T any] struct {
	ch  chan T
	err chan error
}

// Go starts produce in its own goroutine and returns the stage it feeds.
// produce publishes values through emit, which blocks while the stage is at
// capacity. When produce returns, the stream is closed and its error is
// retained for Drain.
func Go[T any](capacity int, produce func(emit func(T)) error) *Stage[T] {
	s := &Stage[T]{
		ch:  make(chan T, capacity),
		err: make(chan error, 1),
	}
	go func() {
		defer close(s.ch)
		s.err <- produce(func(v T) { s.ch <- v })
	}()
	return s
}

// Drain invokes fn for every value in arrival order until the producer
// closes the stream, then joins the producer and returns its error. If fn
// fails, the remaining values are received and discarded so the producer can
// finish; fn's error takes precedence over the producer's.
func (s *Stage[T]) Drain(fn func(T) error) error {
	var fnErr error
	for v := range s.ch {
		if fnErr != nil {
			continue
		}
		fnErr = fn(v)
	}
	err := <-s.err
	if fnErr != nil {
		return fnErr
	}
	return err
}
