package gmail

// LabelUnread is the system label carried by unread messages.
const LabelUnread = "UNREAD"

// MessageRef identifies a message returned by a list query.
type MessageRef struct {
	ID string
}

// BodyKind tells how a part body is delivered.
type BodyKind int

const (
	// BodyInline means the base64url payload is part of the message.
	BodyInline BodyKind = iota
	// BodyRemote means the payload must be fetched by attachment id.
	BodyRemote
)

// BodyRef is either inline base64url data or a remote attachment id.
type BodyRef struct {
	kind  BodyKind
	value string
}

// InlineData returns a BodyRef carrying encoded data.
func InlineData(data string) BodyRef {
	return BodyRef{kind: BodyInline, value: data}
}

// RemoteAttachment returns a BodyRef pointing at an attachment id.
func RemoteAttachment(id string) BodyRef {
	return BodyRef{kind: BodyRemote, value: id}
}

// Kind returns how the body is delivered.
func (b BodyRef) Kind() BodyKind {
	return b.kind
}

// Inline returns the inline data and true for inline bodies.
func (b BodyRef) Inline() (string, bool) {
	return b.value, b.kind == BodyInline
}

// AttachmentID returns the attachment id and true for remote bodies.
func (b BodyRef) AttachmentID() (string, bool) {
	return b.value, b.kind == BodyRemote
}

// Part is one node of a message's content.
type Part struct {
	ContentType string
	// Filename is empty for inline content such as message text.
	Filename string
	Body     BodyRef
}

// MessageBody is the fetched structure of a message.
type MessageBody struct {
	ID string
	// Root is set when the root carries a content type of its own.
	Root     *Part
	Children []Part
}

// Label is a mailbox label.
type Label struct {
	ID   string
	Name string
}
