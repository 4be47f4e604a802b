package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(17)
	s.Push(42)
	assert.Equal(2, s.Len())

	val, ok := s.Top()
	assert.True(ok)
	assert.Equal(uint16(42), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(42), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(17), val)

	val, ok = s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for n := range CALL_STACK_SIZE {
		assert.False(s.Full())
		s.Push(uint16(n))
	}
	assert.True(s.Full())

	small := &Stack{Limit: 2}
	small.Push(1)
	assert.False(small.Full())
	small.Push(2)
	assert.True(small.Full())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Reset()
	assert.True(s.Empty())

	s.Push(1)
	s.Push(2)
	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, s.Len())
}
