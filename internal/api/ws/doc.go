// Package ws lets a real browser page act as the embedded surface of a
// bridge session during development.
//
// The page opens /ws, sends a start frame naming a flow and a user, and from
// then on plays the web view: it loads the URLs it is told to, evaluates the
// scripts it receives, forwards the web app's postMessage traffic as inbound
// frames, and reports every navigation with its back list. Host callbacks
// come back as outcome, claim, redirect and dismiss frames.
//
// Frames (page → harness):
//   - start: open a flow (mypage, detail, offer, promotion, bnpl)
//   - inbound: a web app message {name, body}
//   - navigation: new URL and back list
//   - result: evaluate result or error, by frame id
//   - claimDone: answer to a claim frame
//   - back, close: host chrome buttons
//   - ping
//
// Frames (harness → page):
//   - load, evaluate, userScript, userAgent, goBack, goTo
//   - session, affordances, outcome, claim, redirect, dismiss
//   - system, pong, error
//
// Example Usage:
//
//	handler := ws.NewHandler(sdk, ws.Options{Logger: logger, Metrics: metrics})
//	router.GET("/ws", handler.HandleConnection)
package ws
