// Package headless is a browser surface without a browser.
//
// Browser implements surface.Surface, surface.ScriptInjector and
// surface.UserAgentSetter. Pages come from a Fetcher (HTTP or in-memory),
// are decoded to UTF-8 (chardet guesses undeclared encodings), are
// sanitized with bluemonday so page scripts never run, and are rebuilt
// into a goquery document that a sandbox.Runtime exposes to evaluated
// scripts. Envelopes the bridge posts with window.postMessage are parsed and
// recorded, which lets tests and the dev harness play the web app's side of
// the protocol.
package headless
