// Package http contains the HTTP handlers for the dashboard API. Handlers
// translate query parameters into domain filters, delegate to the services
// layer and render JSON; all failures go through the shared APIError
// envelope.
package http
