package checkout

import "sync"

// NoticeBoard keeps the notifications of the latest attempt of one donor
// session so the page can render them. A notice for a new attempt replaces
// everything held for the previous one.
type NoticeBoard struct {
	mu        sync.Mutex
	attemptID string
	notices   []Notification
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{}
}

func (b *NoticeBoard) Notify(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n.AttemptID != b.attemptID {
		b.attemptID = n.AttemptID
		b.notices = b.notices[:0]
	}
	b.notices = append(b.notices, n)
}

// Last returns the most recent notification, if any.
func (b *NoticeBoard) Last() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return Notification{}, false
	}
	return b.notices[len(b.notices)-1], true
}

// For returns the notifications held for attemptID. Only the latest attempt
// is kept, so older attempts report none.
func (b *NoticeBoard) For(attemptID string) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	if attemptID != b.attemptID || len(b.notices) == 0 {
		return nil
	}
	out := make([]Notification, len(b.notices))
	copy(out, b.notices)
	return out
}

// Fanout delivers each notification to every notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, notifier := range f {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
