// Package handlers implements the HTTP handlers for the conversion API.
//
// The conversion route treats the request path as the target URL, so it
// cannot live on a ServeMux: the server dispatches the reserved paths
// (root, favicon, health, metrics) explicitly and hands everything else
// to ConvertHandler. Error responses use the JSON shape
// {"detail": "<message>"} across all handlers.
package handlers
