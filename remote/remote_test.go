package remote

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/remote.go/internal/exc"
)

func TestNotAsked(t *testing.T) {
	t.Parallel()

	for name, s := range map[string]State[int]{
		"constructor": NotAsked[int](),
		"zero value":  {},
	} {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, ok := s.HasData()
			require.False(t, ok)
			require.False(t, s.IsLoading())
			require.False(t, s.Get().IsPresent())
			require.Equal(t, 5, s.GetOr(5))
			require.Equal(t, TagNotAsked, s.Tag())
			_, failed := s.Err()
			require.False(t, failed)
		})
	}
}

func TestLoading(t *testing.T) {
	t.Parallel()

	s := Loading[float64]()
	require.True(t, s.IsLoading())
	_, ok := s.HasData()
	require.False(t, ok)
	require.False(t, s.Get().IsPresent())
	require.Equal(t, 42.0, s.GetOr(42))
	require.Equal(t, TagLoading, s.Tag())
}

func requireSuccess[T any](t *testing.T, data T, other T) {
	t.Helper()

	s := Success(data)
	ss, ok := s.HasData()
	require.True(t, ok)
	require.Equal(t, data, ss.Get())
	require.False(t, s.IsLoading())
	require.Equal(t, TagSuccess, s.Tag())

	got := s.Get()
	require.True(t, got.IsPresent())
	require.Equal(t, data, got.Value())
	require.Equal(t, data, s.GetOr(other))
}

func TestSuccessWithZeroValues(t *testing.T) {
	t.Parallel()

	t.Run("int", func(t *testing.T) { requireSuccess(t, 0, 99) })
	t.Run("string", func(t *testing.T) { requireSuccess(t, "", "default") })
	t.Run("bool", func(t *testing.T) { requireSuccess(t, false, true) })
	t.Run("slice", func(t *testing.T) { requireSuccess(t, []string{}, []string{"x"}) })
	t.Run("map", func(t *testing.T) { requireSuccess(t, map[string]int{}, map[string]int{"x": 1}) })
	t.Run("nil pointer", func(t *testing.T) {
		var p *int
		one := 1
		requireSuccess(t, p, &one)
	})
	t.Run("non-zero", func(t *testing.T) { requireSuccess(t, 17, 3) })
}

func TestSuccessZeroGetOr(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, Success(0).GetOr(99))
}

func TestLoadingGetOr(t *testing.T) {
	t.Parallel()

	s := Loading[int]()
	require.True(t, s.IsLoading())
	require.Equal(t, 42, s.GetOr(42))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	s := Failure[string](cause)
	_, ok := s.HasData()
	require.False(t, ok)
	require.False(t, s.IsLoading())
	require.False(t, s.Get().IsPresent())
	require.Equal(t, "fallback", s.GetOr("fallback"))
	require.Equal(t, TagFailure, s.Tag())

	err, failed := s.Err()
	require.True(t, failed)
	require.Same(t, cause, err)
}

func TestFailureKeepsNilError(t *testing.T) {
	t.Parallel()

	s := Failure[int](nil)
	require.Equal(t, TagFailure, s.Tag())
	err, failed := s.Err()
	require.True(t, failed)
	require.Nil(t, err)
}

func TestFailureMessage(t *testing.T) {
	t.Parallel()

	s := Failure[int](exc.New(exc.CodeTimeout, "timeout"))
	msg := Match(s,
		func() string { return "" },
		func() string { return "" },
		func(int) string { return "" },
		func(err error) string {
			var e exc.Exception
			require.True(t, errors.As(err, &e))
			return e.Message()
		},
	)
	require.Equal(t, "timeout", msg)
}

type counters struct {
	NotAsked, Loading, Success, Failure int
}

func TestMatchCallsExactlyOneHandler(t *testing.T) {
	t.Parallel()

	cause := errors.New("nope")
	tests := []struct {
		name     string
		state    State[int]
		expected counters
		result   string
	}{
		{name: "NotAsked", state: NotAsked[int](), expected: counters{NotAsked: 1}, result: "not asked"},
		{name: "Loading", state: Loading[int](), expected: counters{Loading: 1}, result: "loading"},
		{name: "Success", state: Success(0), expected: counters{Success: 1}, result: "data 0"},
		{name: "Failure", state: Failure[int](cause), expected: counters{Failure: 1}, result: "error nope"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got counters
			result := Match(tt.state,
				func() string {
					got.NotAsked = got.NotAsked + 1
					return "not asked"
				},
				func() string {
					got.Loading = got.Loading + 1
					return "loading"
				},
				func(v int) string {
					got.Success = got.Success + 1
					require.Equal(t, 0, v)
					return "data 0"
				},
				func(err error) string {
					got.Failure = got.Failure + 1
					return "error " + err.Error()
				},
			)
			require.Equal(t, tt.result, result)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Fatalf("unexpected handler calls (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepeatedReadsAreStable(t *testing.T) {
	t.Parallel()

	states := []State[string]{
		NotAsked[string](),
		Loading[string](),
		Success(""),
		Failure[string](errors.New("x")),
	}
	for _, s := range states {
		_, first := s.HasData()
		loadingFirst := s.IsLoading()
		getFirst := s.Get()
		for x := 0; x < 3; x = x + 1 {
			_, again := s.HasData()
			require.Equal(t, first, again)
			require.Equal(t, loadingFirst, s.IsLoading())
			require.Equal(t, getFirst, s.Get())
		}
	}
}

func TestRefinementMatchesGet(t *testing.T) {
	t.Parallel()

	s := Success([]int{1, 2, 3})
	ss, ok := s.HasData()
	require.True(t, ok)
	require.Equal(t, s.Get().Value(), ss.Get())
	require.Equal(t, s, ss.State())

	direct := NewSuccessState("x")
	require.Equal(t, "x", direct.Get())
	require.Equal(t, Success("x"), direct.State())
}

func TestStateIsNotComparable(t *testing.T) {
	t.Parallel()

	require.False(t, reflect.TypeOf(State[int]{}).Comparable())
	require.False(t, reflect.TypeOf(Success([]int{1})).Comparable())
}

func TestFromResult(t *testing.T) {
	t.Parallel()

	ok := FromResult(3, nil)
	require.Equal(t, Success(3), ok)

	cause := errors.New("failed")
	bad := FromResult(3, cause)
	require.Equal(t, TagFailure, bad.Tag())
	err, _ := bad.Err()
	require.Same(t, cause, err)
}

func TestMap(t *testing.T) {
	t.Parallel()

	double := func(v int) int { return v * 2 }
	require.Equal(t, Success(8), Map(Success(4), double))
	require.Equal(t, NotAsked[int](), Map(NotAsked[int](), double))
	require.Equal(t, Loading[int](), Map(Loading[int](), double))

	cause := errors.New("keep me")
	mapped := Map(Failure[int](cause), func(v int) string { return "unused" })
	err, failed := mapped.Err()
	require.True(t, failed)
	require.Same(t, cause, err)
}

func TestString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "NotAsked", NotAsked[int]().String())
	require.Equal(t, "Loading", Loading[int]().String())
	require.Equal(t, "Success(0)", Success(0).String())
	require.Equal(t, "Failure(bad)", Failure[int](errors.New("bad")).String())
	require.Equal(t, "Tag(9)", Tag(9).String())
}

var benchEscapeValue int

func BenchmarkMatch(b *testing.B) {
	states := []State[int]{NotAsked[int](), Loading[int](), Success(1), Failure[int](errors.New("x"))}

	var loopEscapeValue int
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		for _, s := range states {
			loopEscapeValue = loopEscapeValue + Match(s,
				func() int { return 0 },
				func() int { return 1 },
				func(v int) int { return v },
				func(error) int { return -1 },
			)
		}
	}
	benchEscapeValue = loopEscapeValue
}
