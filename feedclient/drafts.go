package feedclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// draftKey mirrors the slot naming used by the web client's local storage.
func draftKey(soldItemID, userID uuid.UUID) string {
	return fmt.Sprintf("chat_message_for_%s_by_user_%s", soldItemID, userID)
}

// MemoryDrafts is a process-local DraftStore.
type MemoryDrafts struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewMemoryDrafts() *MemoryDrafts {
	return &MemoryDrafts{slots: map[string]string{}}
}

func (d *MemoryDrafts) Get(ctx context.Context, soldItemID, userID uuid.UUID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.slots[draftKey(soldItemID, userID)], nil
}

func (d *MemoryDrafts) Set(ctx context.Context, soldItemID, userID uuid.UUID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots[draftKey(soldItemID, userID)] = text
	return nil
}

func (d *MemoryDrafts) Clear(ctx context.Context, soldItemID, userID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.slots, draftKey(soldItemID, userID))
	return nil
}
