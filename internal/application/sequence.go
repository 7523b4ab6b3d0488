package app

import "math/rand/v2"

// Sequence монотонный счётчик идентификаторов одного прогона.
type Sequence struct {
	next int64
}

// NewSequence создаёт счётчик, первым выдающий start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// Next выдаёт очередной идентификатор.
func (s *Sequence) Next() int64 {
	id := s.next
	s.next++
	return id
}

// Peek возвращает идентификатор, который будет выдан следующим.
func (s *Sequence) Peek() int64 {
	return s.next
}

// NewRand создаёт генератор случайных чисел для одного прогона.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
