// ABOUTME: Concurrency-safe holder for the current index handle
// ABOUTME: Rebuilds construct a fresh handle and swap it in atomically
package recommender

import (
	"sync"
	"sync/atomic"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/models"
)

// Service serves queries from the current Handle. In-flight queries keep
// using the handle they started with while a rebuild runs.
type Service struct {
	current   atomic.Pointer[Handle]
	rebuildMu sync.Mutex
}

// NewService wraps an already built handle. h may be nil, in which case
// queries fail with IndexNotBuiltError until Rebuild succeeds.
func NewService(h *Handle) *Service {
	s := &Service{}
	if h != nil {
		s.current.Store(h)
	}
	return s
}

// Current returns the handle queries are currently served from
func (s *Service) Current() *Handle {
	return s.current.Load()
}

// Recommend runs the query pipeline against the current handle
func (s *Service) Recommend(query string) (*models.RecommendResult, error) {
	return Recommend(s.current.Load(), query)
}

// Detail looks up a book in the current handle
func (s *Service) Detail(id int) (models.Book, error) {
	h := s.current.Load()
	if h == nil {
		return models.Book{}, &bookerr.IndexNotBuiltError{}
	}
	return h.Detail(id)
}

// Rebuild builds a new handle from records and swaps it in. On error the
// previous handle keeps serving.
func (s *Service) Rebuild(records []models.Book, opts Options) (*Handle, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	h, err := BuildIndex(records, opts)
	if err != nil {
		return nil, err
	}
	s.current.Store(h)
	return h, nil
}
