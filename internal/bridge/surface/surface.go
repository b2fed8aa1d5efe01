// Package surface defines the embedded browser capability the bridge drives.
//
// Implementations wrap a real web view, the headless browser in
// internal/browser/headless, or the websocket-backed page of the dev harness.
// All methods are called on the bridge's main loop. Completions may fire on
// any goroutine; the bridge posts them back to the loop itself.
package surface

// HistoryItem is one entry of the back list.
type HistoryItem struct {
	URL   string
	Title string
}

// Surface is the minimum a browser view must offer the bridge.
type Surface interface {
	// Load navigates to url.
	Load(url string) error
	// CurrentURL returns the URL currently shown, or "" before the first load.
	CurrentURL() string
	// EvaluateScript runs script in the page. completion may be nil.
	EvaluateScript(script string, completion func(result any, err error))
	CanGoBack() bool
	GoBack()
	// BackList returns back history, oldest entry first.
	BackList() []HistoryItem
	// GoTo jumps to a history entry.
	GoTo(item HistoryItem)
	// Observe registers a callback fired with the new URL after every
	// navigation.
	Observe(onNavigate func(url string))
}

// InjectionTime selects when a user script runs.
type InjectionTime int

const (
	AtDocumentStart InjectionTime = iota
	AtDocumentEnd
)

// ScriptInjector is implemented by surfaces that support user scripts.
type ScriptInjector interface {
	AddUserScript(source string, at InjectionTime)
}

// UserAgentSetter is implemented by surfaces whose user agent can be set.
type UserAgentSetter interface {
	SetUserAgent(ua string)
}

// DisableZoomScript locks the viewport scale.
const DisableZoomScript = "var meta = document.createElement('meta');" +
	"meta.name = 'viewport';" +
	"meta.content = 'width=device-width, initial-scale=1, maximum-scale=1, shrink-to-fit=no, user-scalable=no';" +
	"var head = document.getElementsByTagName('head')[0];" +
	"head.appendChild(meta);"

// LoadingIndicatorID is the element the web app shows while busy.
const LoadingIndicatorID = "loading-indicator"

// IsLoadingScript evaluates to true while the loading indicator is present.
const IsLoadingScript = "(function() { return document.getElementById('" + LoadingIndicatorID + "') !== null; })();"
