// Package convert turns fetched HTML into markdown text or a
// structured Document.
//
// Both outputs come from the same cleaned parse tree: script, style,
// noscript, iframe and template subtrees are dropped before rendering.
// Empty or markup-only input converts to an empty result, never an
// error.
package convert
