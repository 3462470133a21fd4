package attachments

import (
	"context"

	"github.com/teemow/inboxsaver/internal/gmail"
)

// AttachmentGetter fetches remote attachment payloads.
type AttachmentGetter interface {
	GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error)
}

// Fetcher resolves part bodies to encoded payloads.
type Fetcher struct {
	Client AttachmentGetter
}

// Fetch returns the encoded payload of part. Inline data is returned as is;
// a remote attachment costs exactly one GetAttachment call whose error is
// returned unchanged.
func (f Fetcher) Fetch(ctx context.Context, messageID string, part gmail.Part) (string, error) {
	if data, ok := part.Body.Inline(); ok {
		return data, nil
	}
	id, _ := part.Body.AttachmentID()
	return f.Client.GetAttachment(ctx, messageID, id)
}
