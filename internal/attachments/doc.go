// Package attachments finds, fetches and stores message attachments.
//
// Walker selects the parts of a message worth saving, Fetcher resolves a
// part body to its encoded payload and Store decodes the payload and writes
// it to the download directory.
package attachments
