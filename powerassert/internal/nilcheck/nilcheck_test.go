//go:build unit

package nilcheck

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestInterface(t *testing.T) {
	t.Parallel()

	var ptr *int
	var m map[string]int
	var s []int
	var fn func()
	var ch chan int

	assert.True(t, Interface(nil))
	assert.True(t, Interface(ptr))
	assert.True(t, Interface(m))
	assert.True(t, Interface(s))
	assert.True(t, Interface(fn))
	assert.True(t, Interface(ch))

	assert.False(t, Interface(0))
	assert.False(t, Interface(""))
	assert.False(t, Interface(struct{}{}))
	assert.False(t, Interface([]int{}))
}

func TestValue(t *testing.T) {
	t.Parallel()

	assert.True(t, Value(reflect.Value{}))
	assert.True(t, Value(reflect.ValueOf((*int)(nil))))
	assert.False(t, Value(reflect.ValueOf(3)))
}

func TestTypedNil(t *testing.T) {
	t.Parallel()

	var typed *customErr
	var err error = typed

	assert.True(t, TypedNil(err))
	assert.False(t, TypedNil(nil))
	assert.False(t, TypedNil(errors.New("x")))
}
