// Package log provides the slog setup of inventoryaudit.
//
// SecureHandler wraps any slog.Handler and masks secrets before records
// reach it:
//   - attributes whose key names a secret (x-api-key, authorization, token)
//   - values shaped like credentials (bearer tokens, basic auth)
//   - api_key and token query parameters inside logged URLs
//   - user:password pairs embedded in URLs, such as proxy addresses
//
// The site-scanning API key travels in a header and may appear in
// request URLs when users paste them into flags, so every URL logged by the
// fetch and pipeline packages passes through here.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
