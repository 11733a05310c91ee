package incantation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumWorker(_ context.Context, _ int, part []int) (int, error) {
	sum := 0
	for _, x := range part {
		sum += x
	}
	return sum, nil
}

func sum(parts []int) int {
	total := 0
	for _, x := range parts {
		total += x
	}
	return total
}

func TestSum(t *testing.T) {
	xs := Range(0, 1137)
	seq := 0
	for _, x := range xs {
		seq += x
	}

	for _, threads := range []int{0, 1, 2, 3, 7, 16, 200, 2000} {
		inc := New[int, int](xs)
		err := inc.Invoke(context.Background(), sumWorker, threads).Join()
		require.NoError(t, err)
		assert.Equal(t, seq, inc.Reduce(sum), "threads = %d", threads)
	}
}

func TestThreads(t *testing.T) {
	inc := New[int, int](Range(0, 10))
	assert.Equal(t, DefaultThreads(), inc.Threads())
	assert.Equal(t, 200, inc.WithThreads(200).Threads())
	assert.Equal(t, DefaultThreads(), inc.WithThreads(0).Threads())

	require.NoError(t, inc.WithThreads(3).Invoke(context.Background(), sumWorker, 0).Join())
	assert.Len(t, inc.Results(), 3)
	require.NoError(t, inc.Invoke(context.Background(), sumWorker, 5).Join())
	assert.Len(t, inc.Results(), 5)
}

func TestSplit(t *testing.T) {
	table := []struct {
		n, threads int
		spans      []Span
	}{
		{10, 4, []Span{{0, 3}, {3, 6}, {6, 8}, {8, 10}}},
		{8, 4, []Span{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{2, 4, []Span{{0, 1}, {1, 2}, {2, 2}, {2, 2}}},
		{0, 2, []Span{{0, 0}, {0, 0}}},
		{5, 1, []Span{{0, 5}}},
	}

	for i, test := range table {
		spans := Split(test.n, test.threads)
		assert.Equal(t, test.spans, spans, "%d) Split(%d, %d)", i,
			test.n, test.threads)
	}

	assert.Panics(t, func() { Split(10, 0) })
}

func TestCoverage(t *testing.T) {
	xs := Range(0, 101)
	inc := New[int, []int](xs)
	err := inc.Invoke(context.Background(),
		func(_ context.Context, begin int, part []int) ([]int, error) {
			out := make([]int, len(part))
			for i := range part {
				out[i] = begin + i
			}
			return out, nil
		}, 9).Join()
	require.NoError(t, err)

	assert.Equal(t, xs, inc.Reduce(Concat[int]))
	spans := inc.Spans()
	require.Len(t, spans, 9)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End, spans[i].Begin)
	}
}

var errOdd = errors.New("odd slice")

func TestWorkerError(t *testing.T) {
	inc := New[int, int](Range(0, 40))
	err := inc.Invoke(context.Background(),
		func(_ context.Context, begin int, part []int) (int, error) {
			if begin == 10 || begin == 30 {
				return 0, errOdd
			}
			return len(part), nil
		}, 4).Join()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerFailure))
	assert.True(t, errors.Is(err, errOdd))

	var werr *WorkerError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 10, werr.Begin)
	assert.Equal(t, 20, werr.End)
}

func TestWorkerPanic(t *testing.T) {
	_, err := Cast(context.Background(), Range(0, 8), 2,
		func(_ context.Context, begin int, part []int) (int, error) {
			if begin > 0 {
				panic("boom")
			}
			return 0, nil
		}, sum)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerFailure))
	assert.Contains(t, err.Error(), "boom")
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Cast(ctx, Range(0, 8), 4,
		func(ctx context.Context, _ int, part []int) (int, error) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return len(part), nil
		}, sum)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResultsBeforeJoin(t *testing.T) {
	inc := New[int, int](Range(0, 4))
	assert.Panics(t, func() { inc.Results() })
}

func BenchmarkSum(b *testing.B) {
	xs := Range(0, 1<<16)
	for i := 0; i < b.N; i++ {
		_, _ = Cast(context.Background(), xs, 0, sumWorker, sum)
	}
}
