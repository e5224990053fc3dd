package services

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type generatorReply struct {
	text string
	err  error
}

// stubGenerator replays queued replies. Once the queue is empty it answers with
// fallback, or fails when fallback is empty too.
type stubGenerator struct {
	mu       sync.Mutex
	replies  []generatorReply
	byMarker map[string][]generatorReply
	fallback string
	requests []GenerateRequest
}

func (s *stubGenerator) enqueue(text string, err error) *stubGenerator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, generatorReply{text: text, err: err})
	return s
}

// enqueueFor queues a reply used when the prompt contains marker.
func (s *stubGenerator) enqueueFor(marker, text string, err error) *stubGenerator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byMarker == nil {
		s.byMarker = make(map[string][]generatorReply)
	}
	s.byMarker[marker] = append(s.byMarker[marker], generatorReply{text: text, err: err})
	return s
}

func (s *stubGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	for marker, queue := range s.byMarker {
		if len(queue) > 0 && strings.Contains(req.Prompt, marker) {
			s.byMarker[marker] = queue[1:]
			return queue[0].text, queue[0].err
		}
	}
	if len(s.replies) > 0 {
		reply := s.replies[0]
		s.replies = s.replies[1:]
		return reply.text, reply.err
	}
	if s.fallback != "" {
		return s.fallback, nil
	}
	return "", errors.New("unexpected model call")
}

func (s *stubGenerator) Provider() string { return "stub" }

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// blockingGenerator waits for the attempt context to end.
type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingGenerator) Provider() string { return "stub" }

func (blockingGenerator) Model() string { return "blocking" }
