// Package publish uploads generated icon files to a GitHub repository
// through the contents API.
//
// The pusher is an optional post-batch collaborator: it receives the list
// of produced file paths from the batch summary and commits each file via
// PUT /repos/{owner}/{repo}/contents/{path}. Requests go through a
// retrying HTTP client, and a missing token downgrades the whole step to
// a logged skip rather than a failure.
package publish
