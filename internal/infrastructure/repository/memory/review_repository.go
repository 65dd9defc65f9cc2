package memory

import (
	"context"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/review"
)

type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []review.Review
}

func NewReviewRepository(reviews []review.Review) *ReviewRepository {
	return &ReviewRepository{reviews: append([]review.Review(nil), reviews...)}
}

func (r *ReviewRepository) ListByAgent(_ context.Context, agentID string) ([]review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]review.Review, 0, len(r.reviews))
	for _, item := range r.reviews {
		if item.AgentID == agentID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *ReviewRepository) Create(_ context.Context, rv review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reviews = append(r.reviews, rv)

	return nil
}
