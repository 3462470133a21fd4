// Package config loads and validates the inboxsaver account configuration.
//
// A configuration file is JSON (the default configGmailAccount.json) or YAML
// when the file name ends in .yaml or .yml. Once Load returns, the Config is
// treated as immutable.
package config
