package email

import (
	"context"
	"sync"
)

// MemorySender records messages; Fail makes every Send return it.
type MemorySender struct {
	mu   sync.Mutex
	Sent []Message
	Fail error
}

func (s *MemorySender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.Sent = append(s.Sent, msg)
	return nil
}

func (s *MemorySender) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return Message{}, false
	}
	return s.Sent[len(s.Sent)-1], true
}
