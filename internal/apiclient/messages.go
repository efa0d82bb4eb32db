package apiclient

import (
	"context"
	"net/http"

	"github.com/rpggio/folio/internal/domain/inbox"
)

var _ inbox.Backend = (*Client)(nil)

// ListMessages returns the contact-form inbox.
func (c *Client) ListMessages(ctx context.Context) ([]inbox.Message, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/messages", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[inbox.Message](data, "messages")
}
