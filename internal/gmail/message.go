package gmail

import (
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// toMessageBody converts an API message into a MessageBody. Only the root
// and its direct children are kept.
func toMessageBody(msg *gmail.Message) (MessageBody, error) {
	if msg == nil {
		return MessageBody{}, &MalformedMessageError{Reason: "empty message"}
	}
	payload := msg.Payload
	if payload == nil {
		return MessageBody{}, &MalformedMessageError{MessageID: msg.Id, Reason: "missing payload"}
	}
	if payload.MimeType == "" && len(payload.Parts) == 0 {
		return MessageBody{}, &MalformedMessageError{MessageID: msg.Id, Reason: "payload has neither a content type nor parts"}
	}

	body := MessageBody{ID: msg.Id}
	if payload.MimeType != "" {
		root := partFrom(payload)
		body.Root = &root
	}
	for i, p := range payload.Parts {
		if p == nil || p.MimeType == "" {
			return MessageBody{}, &MalformedMessageError{
				MessageID: msg.Id,
				Reason:    fmt.Sprintf("part %d has no content type", i),
			}
		}
		body.Children = append(body.Children, partFrom(p))
	}
	return body, nil
}

func partFrom(p *gmail.MessagePart) Part {
	part := Part{
		ContentType: p.MimeType,
		Filename:    p.Filename,
		Body:        InlineData(""),
	}
	if p.Body != nil {
		if p.Body.AttachmentId != "" {
			part.Body = RemoteAttachment(p.Body.AttachmentId)
		} else {
			part.Body = InlineData(p.Body.Data)
		}
	}
	return part
}
