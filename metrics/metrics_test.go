package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ihack2712/middleware/pipeline"
)

func TestNewMetrics_NilConfig(t *testing.T) {
	c, err := NewMetrics(nil)

	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestMustNewMetrics_NilConfig(t *testing.T) {
	assert.Panics(t, func() {
		MustNewMetrics(nil)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/metrics", cfg.Path)
	assert.Equal(t, "pipeline", cfg.Namespace)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/metrics", MustNewMetrics(&Config{}).Path())
	assert.Equal(t, "/stats", MustNewMetrics(&Config{Path: "/stats"}).Path())
}

type CollectorTestSuite struct {
	suite.Suite
	collector *PrometheusCollector
}

func TestCollectorSuite(t *testing.T) {
	suite.Run(t, new(CollectorTestSuite))
}

func (s *CollectorTestSuite) SetupTest() {
	c, err := NewMetrics(&Config{Namespace: "test"})
	s.Require().NoError(err)
	s.collector = c
}

func (s *CollectorTestSuite) scrape() string {
	req := httptest.NewRequest(http.MethodGet, s.collector.Path(), nil)
	rec := httptest.NewRecorder()
	s.collector.Handler().ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	s.Require().NoError(err)
	return string(body)
}

func (s *CollectorTestSuite) TestObserveRun() {
	s.collector.ObserveRun(Run{
		Pipeline: "auth",
		Outcome:  pipeline.OutcomeCompleted,
		Ran:      2,
		TotalRan: 4,
		Proxies:  1,
		Duration: 15 * time.Millisecond,
	})
	s.collector.ObserveRun(Run{Pipeline: "auth", Outcome: pipeline.OutcomeFailed})

	s.Equal(1.0, testutil.ToFloat64(s.collector.runsTotal.WithLabelValues("auth", pipeline.OutcomeCompleted)))
	s.Equal(1.0, testutil.ToFloat64(s.collector.runsTotal.WithLabelValues("auth", pipeline.OutcomeFailed)))
	s.Equal(1.0, testutil.ToFloat64(s.collector.proxiesTotal.WithLabelValues("auth")))

	body := s.scrape()
	s.Contains(body, `test_runs_total{outcome="completed",pipeline="auth"} 1`)
	s.Contains(body, `test_units_ran_count{pipeline="auth"} 2`)
	s.Contains(body, `test_units_ran_sum{pipeline="auth"} 4`)
	s.Contains(body, `test_run_duration_seconds_count{pipeline="auth"} 2`)
}

func (s *CollectorTestSuite) TestSubscribe() {
	e := pipeline.New[int](pipeline.WithName("orders"))
	e.Use(
		pipeline.Func(func(_ context.Context, _ int, next pipeline.Next) error { return next() }),
		pipeline.New[int](),
	)
	unsubscribe := Subscribe[int](s.collector, e)

	e.Run(context.Background(), 1, nil)
	e.Use(pipeline.Func(func(context.Context, int, pipeline.Next) error { return errors.New("boom") }))
	e.Run(context.Background(), 1, nil)

	s.Equal(1.0, testutil.ToFloat64(s.collector.runsTotal.WithLabelValues("orders", pipeline.OutcomeCompleted)))
	s.Equal(1.0, testutil.ToFloat64(s.collector.runsTotal.WithLabelValues("orders", pipeline.OutcomeFailed)))
	s.Equal(2.0, testutil.ToFloat64(s.collector.proxiesTotal.WithLabelValues("orders")))

	unsubscribe()
	e.Run(context.Background(), 1, nil)
	s.Equal(1.0, testutil.ToFloat64(s.collector.runsTotal.WithLabelValues("orders", pipeline.OutcomeFailed)))
}

func TestRunOf(t *testing.T) {
	d := &pipeline.Diagnostics[string]{
		Success:      true,
		Ran:          1,
		TotalRan:     3,
		Proxies:      1,
		Discontinued: true,
		Duration:     time.Second,
	}

	run := RunOf("auth", d)

	require.Equal(t, "auth", run.Pipeline)
	assert.Equal(t, pipeline.OutcomeDiscontinued, run.Outcome)
	assert.Equal(t, 3, run.TotalRan)
	assert.Equal(t, time.Second, run.Duration)
}
