// Package feedclient reconstructs an ascending transaction chat timeline
// from the server's newest-first pages: older pages load on upward scroll
// and are prepended as a block, with the viewport anchored so the visible
// message does not jump.
package feedclient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SenderProfile struct {
	ImgURL *string `json:"img_url"`
}

type Sender struct {
	Name    string         `json:"name"`
	Profile *SenderProfile `json:"profile"`
}

type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	SoldItemID uuid.UUID  `json:"sold_item_id"`
	Message    string     `json:"message"`
	ImagePath  *string    `json:"image_path"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `json:"created_at"`
	Sender     Sender     `json:"sender"`
}

// Page is one server page: up to 20 messages, newest first.
type Page struct {
	Messages    []Message
	CurrentPage int
	HasMore     bool
}

// ImageUpload is an attachment for Send.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// API is the server side of the feed.
type API interface {
	FetchPage(ctx context.Context, page int) (Page, error)
	Send(ctx context.Context, text string, image *ImageUpload) (Message, error)
	Edit(ctx context.Context, id uuid.UUID, text string) (Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Viewport is the rendered message list. ScrollHeight grows as messages
// are inserted; SetScrollTop positions the visible window.
type Viewport interface {
	Prepend(messages []Message)
	Update(message Message)
	Remove(id uuid.UUID)
	Clear()
	ScrollHeight() int
	SetScrollTop(offset int)
}

// DraftStore keeps unsent composer text per (transaction, user) slot.
type DraftStore interface {
	Get(ctx context.Context, soldItemID, userID uuid.UUID) (string, error)
	Set(ctx context.Context, soldItemID, userID uuid.UUID, text string) error
	Clear(ctx context.Context, soldItemID, userID uuid.UUID) error
}

// Confirmer asks the user before a destructive action.
type Confirmer func() bool
