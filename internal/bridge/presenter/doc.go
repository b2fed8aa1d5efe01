// Package presenter drives one bridge session: it loads the flow's entry
// page, answers the web app's lifecycle messages, tracks the offer
// transaction status and hands the terminal outcome to the host.
//
// Session lifecycle:
//
//	AwaitingInitialLoad -> Active -> Closing -> Closed
//
// Closed is absorbing; messages that arrive after it are dropped.
//
// Everything that reads or writes session state runs on the main loop the
// presenter was built with. Surface callbacks, claim task completions and
// script results are posted back to that loop before they touch the session.
//
// Affordance queries (close and back button visibility, transparent
// background, framework theme) are pure functions of the URL, the flow
// context and the close-button registry.
package presenter
