package pipe

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStage_DrainDeliversInOrder(t *testing.T) {
	stage := Go(1, func(emit func(int)) error {
		for i := 1; i <= 5; i++ {
			emit(i)
		}
		return nil
	})

	var got []int
	err := stage.Drain(func(v int) error {
		got = append(got, v)
		return nil
	})
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got %v, want 1..5 in order", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("got %d values, want 5", len(got))
	}
}

func TestStage_ProducerErrorSurfacesAfterDelivery(t *testing.T) {
	boom := errors.New("boom")
	stage := Go(1, func(emit func(int)) error {
		emit(1)
		emit(2)
		return boom
	})

	var got []int
	err := stage.Drain(func(v int) error {
		got = append(got, v)
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Drain() error = %v, want %v", err, boom)
	}
	if len(got) != 2 {
		t.Fatalf("got %d values before failure, want 2", len(got))
	}
}

func TestStage_ConsumerErrorWinsAndUnblocksProducer(t *testing.T) {
	consumerErr := errors.New("consumer failed")
	producerDone := make(chan struct{})

	stage := Go(1, func(emit func(int)) error {
		defer close(producerDone)
		for i := 0; i < 100; i++ {
			emit(i)
		}
		return errors.New("producer error that should be masked")
	})

	err := stage.Drain(func(v int) error {
		return consumerErr
	})
	if !errors.Is(err, consumerErr) {
		t.Fatalf("Drain() error = %v, want %v", err, consumerErr)
	}

	select {
	case <-producerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("producer still blocked after Drain returned")
	}
}

func TestStage_BoundedCapacityBlocksProducer(t *testing.T) {
	emitted := make(chan int, 100)
	stage := Go(1, func(emit func(int)) error {
		for i := 0; i < 3; i++ {
			emit(i)
			emitted <- i
		}
		return nil
	})

	// With capacity 1 and no consumer yet, the producer cannot run ahead by
	// more than one in-flight value plus the one blocked in emit.
	time.Sleep(50 * time.Millisecond)
	if n := len(emitted); n > 2 {
		t.Fatalf("producer emitted %d values without a consumer", n)
	}

	if err := stage.Drain(func(int) error { return nil }); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
}
