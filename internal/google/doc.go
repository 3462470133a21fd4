// Package google provides OAuth2 authentication and token storage for the
// Gmail API.
//
// Credentials come from an installed-app client secret file downloaded from
// the Google Cloud console. The resulting token is stored as JSON in a token
// file and refreshed tokens are written back so later runs keep working.
package google
