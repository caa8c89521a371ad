// Package fetch retrieves catalog pages and hands the parsing pipeline
// already-decoded plain text.
//
// The catalog publishes each subject-term listing as an HTML page that
// links to a "plain text version"; fetch resolves that link (with a
// conventional-URL fallback) and strips any remaining markup. Requests
// carry a stable User-Agent and a timeout. There is deliberately no retry,
// throttling, or caching here: callers decide whether a failed fetch is
// worth repeating.
package fetch
