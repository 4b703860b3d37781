package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihack2712/middleware/endpoint"
	"github.com/ihack2712/middleware/pipeline"
)

func echo(_ context.Context, request any) (any, error) {
	return request, nil
}

func TestEndpointMiddleware_PassThrough(t *testing.T) {
	e := pipeline.New[*EndpointCall]()
	e.Use(pipeline.Func(func(_ context.Context, call *EndpointCall, next pipeline.Next) error {
		call.Request = call.Request.(string) + "!"
		return next()
	}))

	ep := endpoint.Chain(EndpointMiddleware(e), endpoint.NopMiddleware)(echo)
	resp, err := ep(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello!", resp)
}

func TestEndpointMiddleware_ShortCircuit(t *testing.T) {
	called := false
	e := pipeline.New[*EndpointCall]()
	e.Use(pipeline.Func(func(_ context.Context, call *EndpointCall, _ pipeline.Next) error {
		call.Response = "cached"
		return nil
	}))

	ep := EndpointMiddleware(e)(func(context.Context, any) (any, error) {
		called = true
		return nil, nil
	})
	resp, err := ep(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "cached", resp)
	assert.False(t, called)
}

func TestEndpointMiddleware_Failure(t *testing.T) {
	errDenied := errors.New("denied")
	e := pipeline.New[*EndpointCall]()
	e.Use(pipeline.Func(func(context.Context, *EndpointCall, pipeline.Next) error {
		return errDenied
	}))

	resp, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, errDenied)
}

func TestEndpointMiddleware_Discontinued(t *testing.T) {
	e := pipeline.New[*EndpointCall]()
	e.Use(pipeline.Func(func(_ context.Context, _ *EndpointCall, next pipeline.Next) error {
		return next(true)
	}))

	_, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	assert.ErrorIs(t, err, pipeline.ErrDiscontinued)
}

func TestEndpointMiddleware_EmptyEngine(t *testing.T) {
	resp, err := EndpointMiddleware(pipeline.New[*EndpointCall]())(echo)(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
}

func TestEndpointMiddleware_EndpointError(t *testing.T) {
	errEndpoint := errors.New("endpoint")
	e := pipeline.New[*EndpointCall]()

	_, err := EndpointMiddleware(e)(func(context.Context, any) (any, error) {
		return nil, errEndpoint
	})(context.Background(), "hello")

	assert.ErrorIs(t, err, errEndpoint)
}

func TestEndpointMiddleware_SeesEndpointResult(t *testing.T) {
	var seen any
	e := pipeline.New[*EndpointCall]()
	e.Use(pipeline.Func(func(_ context.Context, call *EndpointCall, next pipeline.Next) error {
		err := next()
		seen = call.Response
		return err
	}))

	_, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", seen)
}

func TestNop(t *testing.T) {
	resp, err := endpoint.Nop(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, struct{}{}, resp)
}

func TestEndpointUnit(t *testing.T) {
	var trail []string
	logging := func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			trail = append(trail, "before")
			resp, err := next(ctx, request.(string)+"?")
			trail = append(trail, "after")
			return resp, err
		}
	}

	e := pipeline.New[*EndpointCall]()
	e.Use(EndpointUnit(logging))

	resp, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello?", resp)
	assert.Equal(t, []string{"before", "after"}, trail)
}

func TestEndpointUnit_Rejects(t *testing.T) {
	errForbidden := errors.New("forbidden")
	deny := func(endpoint.Endpoint) endpoint.Endpoint {
		return func(context.Context, any) (any, error) {
			return nil, errForbidden
		}
	}

	e := pipeline.New[*EndpointCall]()
	e.Use(EndpointUnit(deny))

	_, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	assert.ErrorIs(t, err, errForbidden)
}

func TestEndpointUnit_DownstreamFailure(t *testing.T) {
	errBoom := errors.New("boom")
	e := pipeline.New[*EndpointCall]()
	e.Use(
		EndpointUnit(endpoint.NopMiddleware),
		pipeline.Func(func(context.Context, *EndpointCall, pipeline.Next) error { return errBoom }),
	)

	_, err := EndpointMiddleware(e)(echo)(context.Background(), "hello")

	assert.ErrorIs(t, err, errBoom)
}
