// Package gmail provides the narrow Gmail surface inboxsaver needs.
//
// The Client interface covers listing unread messages with a label, fetching
// a message, fetching an attachment, changing labels, moving a message to the
// trash and listing labels. GoogleClient implements it on top of the Gmail
// REST API; tests use fakes.
//
// Messages are converted from the API representation into MessageBody at the
// boundary. A message is either single-part, with the content type and body
// directly on the root, or multi-part, with the root holding child parts.
// Every part body is a BodyRef: inline base64url data or the id of an
// attachment that has to be fetched separately. Messages missing required
// fields are rejected with a MalformedMessageError.
//
// Authorizer memoizes the client handle and rebuilds it when its credential
// stops working, so a token that expires between passes is picked up again on
// the next pass.
//
// Example usage:
//
//	auth := gmail.NewAuthorizer(connect, metrics)
//	client, err := auth.Authorize(ctx)
//	if err != nil {
//	    return err
//	}
//	refs, err := client.ListMessages(ctx, "pipan", true)
package gmail
