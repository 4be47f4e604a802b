package cpu

// Stack is the return address stack used by CALL and RET.
type Stack struct {
	Limit int      // Maximum depth. Zero is CALL_STACK_SIZE.
	Data  []uint16 // Return addresses, oldest first.
}

func (s *Stack) limit() int {
	if s.Limit == 0 {
		return CALL_STACK_SIZE
	}
	return s.Limit
}

func (s *Stack) Push(value uint16) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Top()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= s.limit()
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Top() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
