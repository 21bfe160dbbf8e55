//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkSuite(t *testing.T) {
	t.Run("add uses default iterations", func(t *testing.T) {
		suite := NewBenchmarkSuite()
		suite.Add("add", 1000, func() error { return nil })
		require.Len(t, suite.scenarios, 1)
		assert.Equal(t, defaultIterations, suite.scenarios[0].Iterations)
		assert.Equal(t, 1000, suite.scenarios[0].Elements)
	})

	t.Run("run successful scenario", func(t *testing.T) {
		suite := NewBenchmarkSuite()
		calls := 0
		suite.AddScenario(BenchmarkScenario{
			Name:       "sleep",
			Elements:   100,
			Iterations: 3,
			Operation: func() error {
				calls++
				time.Sleep(time.Millisecond)
				return nil
			},
		})

		results := suite.Run()
		require.Len(t, results, 1)
		r := results[0]
		assert.Equal(t, 3, calls)
		assert.True(t, r.Success())
		assert.GreaterOrEqual(t, r.MinDuration, time.Millisecond)
		assert.LessOrEqual(t, r.MinDuration, r.AverageDuration)
		assert.LessOrEqual(t, r.AverageDuration, r.MaxDuration)
		assert.Positive(t, r.ElementsPerSec)
	})

	t.Run("failure stops iterations", func(t *testing.T) {
		suite := NewBenchmarkSuite()
		boom := errors.New("boom")
		calls := 0
		suite.AddScenario(BenchmarkScenario{
			Name:       "fail",
			Iterations: 5,
			Operation: func() error {
				calls++
				if calls == 2 {
					return boom
				}
				return nil
			},
		})

		r := suite.Run()[0]
		assert.Equal(t, 2, calls)
		assert.False(t, r.Success())
		assert.ErrorIs(t, r.Err, boom)
		assert.EqualError(t, r.Err, "iteration 2: boom")
	})

	t.Run("zero iterations run once", func(t *testing.T) {
		suite := NewBenchmarkSuite()
		calls := 0
		suite.AddScenario(BenchmarkScenario{Name: "once", Operation: func() error {
			calls++
			return nil
		}})
		suite.Run()
		assert.Equal(t, 1, calls)
	})
}

func TestBenchmarkReport(t *testing.T) {
	suite := NewBenchmarkSuite()
	suite.Add("ok", 10, func() error { return nil })
	suite.Add("bad", 10, func() error { return errors.New("nope") })
	suite.Run()
	assert.Len(t, suite.Results(), 2)

	var buf bytes.Buffer
	require.NoError(t, suite.WriteReport(&buf))
	out := buf.String()
	assert.Contains(t, out, "scenario")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "iteration 1: nope")
}
