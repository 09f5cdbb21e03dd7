package feedclient

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Feed drives one conversation's viewport. A single loading flag keeps
// page fetches single-flight; the generation counter invalidates fetches
// that were still in flight when a send reset the feed.
type Feed struct {
	api    API
	view   Viewport
	drafts DraftStore

	soldItemID uuid.UUID
	userID     uuid.UUID

	mu         sync.Mutex
	timeline   Timeline
	page       int
	hasMore    bool
	loading    bool
	loadFailed bool
	generation int
}

func New(api API, view Viewport, drafts DraftStore, soldItemID, userID uuid.UUID) *Feed {
	return &Feed{
		api:        api,
		view:       view,
		drafts:     drafts,
		soldItemID: soldItemID,
		userID:     userID,
		hasMore:    true,
		page:       0,
	}
}

// Open loads the newest page, scrolls to the bottom, and returns the
// restored draft for the composer.
func (f *Feed) Open(ctx context.Context) (string, error) {
	if err := f.loadPage(ctx, 1, true); err != nil {
		return "", err
	}
	draft, err := f.drafts.Get(ctx, f.soldItemID, f.userID)
	if err != nil {
		log.Printf("Failed to restore draft: %v", err)
		return "", nil
	}
	return draft, nil
}

// ScrollToTop is the upward infinite-scroll trigger. A failed fetch is
// logged and recorded on LoadFailed but keeps HasMore set, so a later
// scroll retries; an empty page ends paging for good.
func (f *Feed) ScrollToTop(ctx context.Context) error {
	f.mu.Lock()
	if !f.hasMore || f.loading {
		f.mu.Unlock()
		return nil
	}
	next := f.page + 1
	f.mu.Unlock()

	return f.loadPage(ctx, next, false)
}

func (f *Feed) loadPage(ctx context.Context, pageNum int, scrollToBottom bool) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	gen := f.generation
	f.mu.Unlock()

	page, err := f.api.FetchPage(ctx, pageNum)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// The feed was reset while this fetch was in flight; its result no
		// longer belongs in the timeline.
		return nil
	}
	f.loading = false

	if err != nil {
		log.Printf("Failed to fetch chat page %d: %v", pageNum, err)
		f.loadFailed = true
		return nil
	}
	f.loadFailed = false

	if len(page.Messages) == 0 {
		f.hasMore = false
		return nil
	}

	block := reversed(page.Messages)
	prevHeight := f.view.ScrollHeight()

	f.timeline.PrependBlock(block)
	f.view.Prepend(block)

	f.page = page.CurrentPage
	f.hasMore = page.HasMore

	if scrollToBottom {
		f.view.SetScrollTop(f.view.ScrollHeight())
	} else {
		f.view.SetScrollTop(f.view.ScrollHeight() - prevHeight)
	}
	return nil
}

// Send submits a message and, on success, clears the draft slot and
// reloads from page one so the server-assigned id, timestamp, and sender
// projection are authoritative. A failed send leaves the draft alone.
func (f *Feed) Send(ctx context.Context, text string, image *ImageUpload) error {
	if _, err := f.api.Send(ctx, text, image); err != nil {
		return err
	}

	if err := f.drafts.Clear(ctx, f.soldItemID, f.userID); err != nil {
		log.Printf("Failed to clear draft: %v", err)
	}

	f.mu.Lock()
	f.generation++
	f.loading = false
	f.page = 0
	f.hasMore = true
	f.loadFailed = false
	f.timeline.Clear()
	f.view.Clear()
	f.mu.Unlock()

	return f.loadPage(ctx, 1, true)
}

// Edit updates a single rendered message in place. The displayed text is
// the server's echo, never the local draft of the edit, so server-side
// truncation or sanitization shows through.
func (f *Feed) Edit(ctx context.Context, id uuid.UUID, text string) error {
	updated, err := f.api.Edit(ctx, id, text)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.timeline.Messages() {
		if m.ID == id {
			m.Message = updated.Message
			f.timeline.Replace(m)
			f.view.Update(m)
			break
		}
	}
	return nil
}

// Delete removes a single message after the user confirms. The rest of
// the timeline is untouched and nothing is refetched.
func (f *Feed) Delete(ctx context.Context, id uuid.UUID, confirm Confirmer) error {
	if confirm != nil && !confirm() {
		return nil
	}
	if err := f.api.Delete(ctx, id); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeline.Remove(id)
	f.view.Remove(id)
	return nil
}

// SaveDraft persists the composer's current text; called on every change.
func (f *Feed) SaveDraft(ctx context.Context, text string) error {
	return f.drafts.Set(ctx, f.soldItemID, f.userID, text)
}

// Messages returns the rendered sequence, oldest first.
func (f *Feed) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeline.Messages()
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// LoadFailed reports whether the last page fetch errored, as opposed to
// the conversation genuinely running out of pages.
func (f *Feed) LoadFailed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadFailed
}

func (f *Feed) CurrentPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}
