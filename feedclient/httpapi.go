package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Client implements API over the chat REST endpoints with a bearer token.
type Client struct {
	BaseURL    string
	Token      string
	ItemID     uuid.UUID
	HTTPClient *http.Client
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api: %d %s", e.Status, e.Message)
}

type pageResponse struct {
	Data        []Message `json:"data"`
	CurrentPage int       `json:"current_page"`
	NextPageURL *string   `json:"next_page_url"`
}

func (c *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	url := fmt.Sprintf("%s/api/v1/items/%s/chats?page=%d", strings.TrimRight(c.BaseURL, "/"), c.ItemID, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, err
	}

	var resp pageResponse
	if err := c.do(req, "", &resp); err != nil {
		return Page{}, err
	}

	return Page{
		Messages:    resp.Data,
		CurrentPage: resp.CurrentPage,
		HasMore:     resp.NextPageURL != nil,
	}, nil
}

func (c *Client) Send(ctx context.Context, text string, image *ImageUpload) (Message, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("message", text); err != nil {
		return Message{}, err
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return Message{}, err
		}
		if _, err := part.Write(image.Content); err != nil {
			return Message{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Message{}, err
	}

	url := fmt.Sprintf("%s/api/v1/items/%s/chats", strings.TrimRight(c.BaseURL, "/"), c.ItemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return Message{}, err
	}

	var created Message
	if err := c.do(req, writer.FormDataContentType(), &created); err != nil {
		return Message{}, err
	}
	return created, nil
}

func (c *Client) Edit(ctx context.Context, id uuid.UUID, text string) (Message, error) {
	payload, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return Message{}, err
	}

	url := fmt.Sprintf("%s/api/v1/chats/%s", strings.TrimRight(c.BaseURL, "/"), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return Message{}, err
	}

	var updated Message
	if err := c.do(req, "application/json", &updated); err != nil {
		return Message{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/api/v1/chats/%s", strings.TrimRight(c.BaseURL, "/"), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, "", nil)
}

func (c *Client) do(req *http.Request, contentType string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &failure); err != nil || failure.Message == "" {
			failure.Message = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: failure.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
