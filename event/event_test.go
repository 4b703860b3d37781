package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestEvent_DispatchInOrder(t *testing.T) {
	e := New[string]()
	ctx := context.Background()

	var order []string
	e.Subscribe(func(_ context.Context, s string) error {
		order = append(order, "first:"+s)
		return nil
	})
	e.Subscribe(func(_ context.Context, s string) error {
		order = append(order, "second:"+s)
		return nil
	})

	err := e.Dispatch(ctx, "x")
	assert.NoError(t, err)
	assert.Equal(t, []string{"first:x", "second:x"}, order)
}

func TestEvent_ErrorsDoNotStopLaterHandlers(t *testing.T) {
	e := New[int]()
	errA := errors.New("a")
	errB := errors.New("b")

	called := 0
	e.Subscribe(func(context.Context, int) error { called++; return errA })
	e.Subscribe(func(context.Context, int) error { called++; panic("boom") })
	e.Subscribe(func(context.Context, int) error { called++; return errB })

	err := e.Dispatch(context.Background(), 1)

	assert.Equal(t, 3, called)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.ErrorIs(t, err, ErrHandlerPanic)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestEvent_Unsubscribe(t *testing.T) {
	var e Event[int]
	called := 0
	unsubscribe := e.Subscribe(func(context.Context, int) error { called++; return nil })
	assert.Equal(t, 1, e.Len())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, e.Len())

	assert.NoError(t, e.Dispatch(context.Background(), 1))
	assert.Equal(t, 0, called)
}

func TestEvent_UnsubscribeKeepsOthers(t *testing.T) {
	e := New[int]()
	var got []string
	e.Subscribe(func(context.Context, int) error { got = append(got, "a"); return nil })
	off := e.Subscribe(func(context.Context, int) error { got = append(got, "b"); return nil })
	e.Subscribe(func(context.Context, int) error { got = append(got, "c"); return nil })

	off()
	_ = e.Dispatch(context.Background(), 0)

	assert.Equal(t, []string{"a", "c"}, got)
}

func TestEvent_NilHandlerIgnored(t *testing.T) {
	e := New[int]()
	off := e.Subscribe(nil)
	off()
	assert.Equal(t, 0, e.Len())
}
