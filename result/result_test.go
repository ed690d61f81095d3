package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOk(t *testing.T) {
	r := Ok(0.5)
	assert.True(t, r.IsOk())
	assert.False(t, r.IsErr())
	v, err := r.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, 0.5, v)
	assert.Equal(t, 0.5, r.UnwrapOr(0))
}

func TestErrFallsBack(t *testing.T) {
	r := Err[float64](errors.New("boom"))
	assert.True(t, r.IsErr())
	assert.EqualError(t, r.Error(), "boom")
	assert.Equal(t, 0.0, r.UnwrapOr(0))
}

func TestFromPair(t *testing.T) {
	assert.True(t, FromPair(1, nil).IsOk())
	assert.True(t, FromPair(1, errors.New("x")).IsErr())
}

func TestOnErr(t *testing.T) {
	var seen error
	Errf[int]("bad %d", 3).OnErr(func(err error) { seen = err })
	assert.EqualError(t, seen, "bad 3")

	called := false
	Ok(1).OnErr(func(error) { called = true })
	assert.False(t, called)
}
