// File: internal/sched/fifo_test.go
// License: Apache-2.0

package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFIFOOrder(t *testing.T) {
	f := newFIFO[int]()
	for i := 0; i < 10; i++ {
		require.True(t, f.push(i))
	}
	for i := 0; i < 10; i++ {
		v, ok := f.pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestFIFOPopBlocksUntilPush(t *testing.T) {
	f := newFIFO[string]()
	got := make(chan string, 1)
	go func() {
		v, ok := f.pop()
		if ok {
			got <- v
		}
	}()
	time.Sleep(20 * time.Millisecond)
	require.True(t, f.push("x"))
	select {
	case v := <-got:
		require.Equal(t, "x", v)
	case <-time.After(2 * time.Second):
		t.Fatal("pop never woke up")
	}
}

func TestFIFOPauseHoldsItems(t *testing.T) {
	f := newFIFO[int]()
	f.pause()
	require.True(t, f.push(1))

	got := make(chan int, 1)
	go func() {
		v, ok := f.pop()
		if ok {
			got <- v
		}
	}()
	select {
	case <-got:
		t.Fatal("paused queue released an item")
	case <-time.After(50 * time.Millisecond):
	}
	f.resume()
	select {
	case v := <-got:
		require.Equal(t, 1, v)
	case <-time.After(2 * time.Second):
		t.Fatal("resume never released the item")
	}
}

func TestFIFOCloseDrainsThenStops(t *testing.T) {
	f := newFIFO[int]()
	require.True(t, f.push(1))
	require.True(t, f.push(2))
	f.close()

	require.False(t, f.push(3))
	v, ok := f.pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = f.pop()
	require.True(t, ok)
	require.Equal(t, 2, v)
	_, ok = f.pop()
	require.False(t, ok)
}

func TestFIFOCloseUnparksPausedConsumer(t *testing.T) {
	f := newFIFO[int]()
	f.pause()
	done := make(chan bool, 1)
	go func() {
		_, ok := f.pop()
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	f.close()
	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("close left consumer parked")
	}
}
