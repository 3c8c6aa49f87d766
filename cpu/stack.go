package cpu

const (
	STACK_CAPACITY = 1024 // Maximum stack depth
)

// Stack is the bounded operand stack. The top of the stack is the last
// element of Data.
type Stack struct {
	Data []Word
}

// Push adds a value to the top of the stack, unless the stack is full.
func (s *Stack) Push(value Word) (ok bool) {
	if s.Full() {
		return
	}

	s.Data = append(s.Data, value)
	return true
}

func (s *Stack) Pop() (value Word, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

// Pick returns the value depth slots below the top; depth 0 is the top.
func (s *Stack) Pick(depth Word) (value Word, ok bool) {
	if depth < 0 || depth >= Word(len(s.Data)) {
		return
	}

	return s.Data[Word(len(s.Data))-1-depth], true
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_CAPACITY
}

func (s *Stack) Peek() (value Word, ok bool) {
	return s.Pick(0)
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
