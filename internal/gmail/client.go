package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxsaver/internal/instrumentation"
)

const user = "me"

// Client is the subset of the Gmail API used to process labeled mail.
type Client interface {
	// ListMessages returns every message carrying label, restricted to
	// unread messages when unreadOnly is set.
	ListMessages(ctx context.Context, label string, unreadOnly bool) ([]MessageRef, error)
	// GetMessage fetches the full structure of a message.
	GetMessage(ctx context.Context, id string) (MessageBody, error)
	// GetAttachment returns the base64url payload of a remote attachment.
	GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error)
	// ModifyLabels adds and removes label ids on a message.
	ModifyLabels(ctx context.Context, id string, add, remove []string) error
	// TrashMessage moves a message to the trash.
	TrashMessage(ctx context.Context, id string) error
	// ListLabels returns the labels of the mailbox.
	ListLabels(ctx context.Context) ([]Label, error)
}

// GoogleClient implements Client on top of the Gmail REST API.
type GoogleClient struct {
	svc     *gmail.UsersService
	limiter *rate.Limiter
	metrics *instrumentation.Metrics
}

var _ Client = (*GoogleClient)(nil)

// ClientOption configures a GoogleClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	rps      float64
	metrics  *instrumentation.Metrics
	endpoint string
}

// WithRateLimit caps API calls per second. Zero or less means unlimited.
func WithRateLimit(rps float64) ClientOption {
	return func(o *clientOptions) { o.rps = rps }
}

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) ClientOption {
	return func(o *clientOptions) { o.metrics = m }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) { o.endpoint = endpoint }
}

// NewClient creates a GoogleClient that sends requests through httpClient,
// which is expected to carry OAuth credentials.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...ClientOption) (*GoogleClient, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}
	svc, err := gmail.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if o.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.rps), 1)
	}

	return &GoogleClient{
		svc:     svc.Users,
		limiter: limiter,
		metrics: o.metrics,
	}, nil
}

// call wraps one API request with rate limiting, a span and metrics.
func (c *GoogleClient) call(ctx context.Context, op, messageID string, fn func(context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return newRemoteError(op, messageID, err)
	}

	var attrs []attribute.KeyValue
	if messageID != "" {
		attrs = append(attrs, attribute.String(instrumentation.SpanAttrMessageID, messageID))
	}
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, op, attrs...)

	start := time.Now()
	err := fn(ctx)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		err = newRemoteError(op, messageID, err)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, op, status, time.Since(start))
	instrumentation.EndSpan(span, err)
	return err
}

// ListMessages pages through all matching messages.
func (c *GoogleClient) ListMessages(ctx context.Context, label string, unreadOnly bool) ([]MessageRef, error) {
	var refs []MessageRef
	pageToken := ""
	for {
		var res *gmail.ListMessagesResponse
		err := c.call(ctx, instrumentation.OperationListMessages, "", func(ctx context.Context) error {
			req := c.svc.Messages.List(user).Q(fmt.Sprintf("label:%q", label))
			if unreadOnly {
				req = req.LabelIds(LabelUnread)
			}
			if pageToken != "" {
				req = req.PageToken(pageToken)
			}
			var err error
			res, err = req.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, m := range res.Messages {
			if m == nil || m.Id == "" {
				continue
			}
			refs = append(refs, MessageRef{ID: m.Id})
		}
		if res.NextPageToken == "" {
			return refs, nil
		}
		pageToken = res.NextPageToken
	}
}

// GetMessage fetches a message in full format.
func (c *GoogleClient) GetMessage(ctx context.Context, id string) (MessageBody, error) {
	var msg *gmail.Message
	err := c.call(ctx, instrumentation.OperationGetMessage, id, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get(user, id).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return MessageBody{}, err
	}
	if msg.Id == "" {
		msg.Id = id
	}
	return toMessageBody(msg)
}

// GetAttachment returns the still-encoded attachment data.
func (c *GoogleClient) GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error) {
	var data string
	err := c.call(ctx, instrumentation.OperationGetAttachment, messageID, func(ctx context.Context) error {
		att, err := c.svc.Messages.Attachments.Get(user, messageID, attachmentID).Context(ctx).Do()
		if err != nil {
			return err
		}
		data = att.Data
		return nil
	})
	return data, err
}

// ModifyLabels changes the labels of a single message.
func (c *GoogleClient) ModifyLabels(ctx context.Context, id string, add, remove []string) error {
	return c.call(ctx, instrumentation.OperationModify, id, func(ctx context.Context) error {
		_, err := c.svc.Messages.Modify(user, id, &gmail.ModifyMessageRequest{
			AddLabelIds:    add,
			RemoveLabelIds: remove,
		}).Context(ctx).Do()
		return err
	})
}

// TrashMessage moves a message to the trash.
func (c *GoogleClient) TrashMessage(ctx context.Context, id string) error {
	return c.call(ctx, instrumentation.OperationTrash, id, func(ctx context.Context) error {
		_, err := c.svc.Messages.Trash(user, id).Context(ctx).Do()
		return err
	})
}

// ListLabels returns all labels of the mailbox.
func (c *GoogleClient) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	err := c.call(ctx, instrumentation.OperationListLabels, "", func(ctx context.Context) error {
		res, err := c.svc.Labels.List(user).Context(ctx).Do()
		if err != nil {
			return err
		}
		for _, l := range res.Labels {
			if l == nil {
				continue
			}
			labels = append(labels, Label{ID: l.Id, Name: l.Name})
		}
		return nil
	})
	return labels, err
}

// ResolveLabelID returns the id of the label named name, or name itself when
// no such label exists.
func ResolveLabelID(labels []Label, name string) string {
	for _, l := range labels {
		if l.Name == name || l.ID == name {
			return l.ID
		}
	}
	return name
}
