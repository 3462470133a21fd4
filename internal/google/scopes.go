package google

import (
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultOAuthScopes are the scopes inboxsaver requests.
//
// gmail.modify covers everything the tool does: listing and reading
// messages, downloading attachments, changing labels and moving messages to
// the trash. It does not allow permanent deletion.
var DefaultOAuthScopes = []string{
	gmail.GmailModifyScope,
}
