package processor

import (
	"context"
	"errors"
	"sync"

	"github.com/teemow/inboxsaver/internal/gmail"
)

type modifyCall struct {
	ID     string
	Add    []string
	Remove []string
}

// fakeClient is an in-memory gmail.Client.
type fakeClient struct {
	mu sync.Mutex

	refs        []gmail.MessageRef
	listErr     error
	messages    map[string]gmail.MessageBody
	attachments map[string]string
	attErr      map[string]error
	labels      []gmail.Label

	listCalls       int
	attachmentCalls []string
	modifyCalls     []modifyCall
	trashCalls      []string
	labelCalls      int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		messages:    map[string]gmail.MessageBody{},
		attachments: map[string]string{},
		attErr:      map[string]error{},
	}
}

func (f *fakeClient) ListMessages(_ context.Context, _ string, _ bool) ([]gmail.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.refs, f.listErr
}

func (f *fakeClient) GetMessage(_ context.Context, id string) (gmail.MessageBody, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.messages[id]
	if !ok {
		return gmail.MessageBody{}, &gmail.RemoteError{Op: "get_message", MessageID: id, Code: 404, Err: errors.New("not found")}
	}
	return body, nil
}

func (f *fakeClient) GetAttachment(_ context.Context, messageID, attachmentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachmentCalls = append(f.attachmentCalls, attachmentID)
	if err := f.attErr[attachmentID]; err != nil {
		return "", &gmail.RemoteError{Op: "get_attachment", MessageID: messageID, Err: err}
	}
	return f.attachments[attachmentID], nil
}

func (f *fakeClient) ModifyLabels(_ context.Context, id string, add, remove []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modifyCalls = append(f.modifyCalls, modifyCall{ID: id, Add: add, Remove: remove})
	return nil
}

func (f *fakeClient) TrashMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trashCalls = append(f.trashCalls, id)
	return nil
}

func (f *fakeClient) ListLabels(_ context.Context) ([]gmail.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labelCalls++
	return f.labels, nil
}

type staticAuthorizer struct {
	client gmail.Client
	err    error
	calls  int
}

func (a *staticAuthorizer) Authorize(_ context.Context) (gmail.Client, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.client, nil
}
