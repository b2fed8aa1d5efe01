// Package sandbox runs bridge scripts against a page without a browser.
//
// A Runtime owns one goja VM per loaded document. The VM exposes window
// (with postMessage and location), console, and a document object backed by
// goquery: getElementById, getElementsByTagName, querySelector and
// createElement, with element proxies supporting attributes, appendChild and
// remove. That is enough for the viewport, language, loading-indicator and
// postMessage scripts the presenter evaluates.
//
// Scripts run under a timeout; Node-style globals are removed and timers are
// no-ops.
package sandbox
