package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/verenigingen/membership-api/internal/draft"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/notification"
)

// MemoryDraftStore is an in-memory draft.Store for tests; TTLs are ignored.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *MemoryDraftStore) Save(_ context.Context, draftID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftID] = payload
	return nil
}

func (s *MemoryDraftStore) Load(_ context.Context, draftID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.drafts[draftID]
	if !ok {
		return nil, draft.ErrDraftNotFound
	}
	return payload, nil
}

var _ draft.Store = (*MemoryDraftStore)(nil)

// MemoryCounterStore is an in-memory middleware.CounterStore for tests; the
// expiry window is ignored.
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counts: make(map[string]int64)}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

// RecordingNotifier captures outgoing notifications instead of sending them.
type RecordingNotifier struct {
	mu sync.Mutex

	Confirmations []string // recipient emails
	ReviewerMails []string // applicant names
	Approvals     []string // recipient emails
	Rejections    []string // rejection reasons
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) SendApplicationConfirmation(_ context.Context, m *model.Member) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Confirmations = append(n.Confirmations, m.Email)
	return nil
}

func (n *RecordingNotifier) SendReviewerNotification(_ context.Context, m *model.Member) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ReviewerMails = append(n.ReviewerMails, m.FullName)
	return nil
}

func (n *RecordingNotifier) SendApprovalEmail(_ context.Context, m *model.Member, _ *model.Invoice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Approvals = append(n.Approvals, m.Email)
	return nil
}

func (n *RecordingNotifier) SendRejectionEmail(_ context.Context, _ *model.Member, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Rejections = append(n.Rejections, reason)
	return nil
}

var _ notification.Notifier = (*RecordingNotifier)(nil)
