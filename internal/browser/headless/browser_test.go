package headless

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/servicex/internal/bridge/codec"
	"github.com/GriffinCanCode/servicex/internal/bridge/surface"
	"github.com/GriffinCanCode/servicex/internal/locale"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

const origin = "https://app.test"

func fixtures() *StaticPages {
	return NewStaticPages(map[string]string{
		"/initial": `<html><head><title> Redeem </title><script>window.hacked = true;</script></head>
			<body><div id="loading-indicator">Loading</div><script>window.hacked = true;</script></body></html>`,
		"/offers":         `<html><head><title>Offers</title></head><body><ul><li>one</li></ul></body></html>`,
		"/pending-offer":  `<html><head><title>Pending</title></head><body><p>pending</p></body></html>`,
		"/canceled-offer": `<html><body>canceled</body></html>`,
	})
}

func TestLoadRendersSanitizedPage(t *testing.T) {
	b := New(fixtures())

	require.NoError(t, b.Load(origin+"/initial"))

	assert.Equal(t, origin+"/initial", b.CurrentURL())
	assert.Equal(t, "Redeem", b.Title())
	assert.Equal(t, 0, b.Document().Find("script").Length())
	assert.Equal(t, 1, b.Document().Find("#loading-indicator").Length())

	var hacked any
	b.EvaluateScript("typeof window.hacked", func(v any, err error) {
		require.NoError(t, err)
		hacked = v
	})
	assert.Equal(t, "undefined", hacked)
}

func TestLoadMissingPage(t *testing.T) {
	b := New(fixtures())

	err := b.Load(origin + "/nope")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, b.CurrentURL())
}

func TestUserScriptsRunOnEveryLoad(t *testing.T) {
	b := New(fixtures())
	script, ok := locale.AppLanguageScript(types.LanguageVietnamese)
	require.True(t, ok)
	b.AddUserScript(script, surface.AtDocumentStart)
	b.AddUserScript(surface.DisableZoomScript, surface.AtDocumentEnd)

	for _, path := range []string{"/initial", "/offers"} {
		require.NoError(t, b.Load(origin+path))

		var lang any
		b.EvaluateScript("window.appLanguage", func(v any, _ error) { lang = v })
		assert.Equal(t, "vi", lang)

		meta := b.Document().Find("head meta[name=viewport]")
		assert.Equal(t, 1, meta.Length(), path)
	}
}

func TestLoadingIndicator(t *testing.T) {
	b := New(fixtures())
	tests := []struct {
		path string
		want bool
	}{
		{"/initial", true},
		{"/offers", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.NoError(t, b.Load(origin+tt.path))

			var got any
			b.EvaluateScript(surface.IsLoadingScript, func(v any, err error) {
				require.NoError(t, err)
				got = v
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistory(t *testing.T) {
	b := New(fixtures())
	var seen []string
	b.Observe(func(url string) { seen = append(seen, url) })

	assert.False(t, b.CanGoBack())
	require.NoError(t, b.Load(origin+"/initial"))
	require.NoError(t, b.Load(origin+"/offers"))
	require.NoError(t, b.Load(origin+"/pending-offer"))

	require.True(t, b.CanGoBack())
	assert.Equal(t, []surface.HistoryItem{
		{URL: origin + "/initial", Title: "Redeem"},
		{URL: origin + "/offers", Title: "Offers"},
	}, b.BackList())

	b.GoBack()
	assert.Equal(t, origin+"/offers", b.CurrentURL())

	b.GoTo(b.BackList()[0])
	assert.Equal(t, origin+"/initial", b.CurrentURL())
	assert.False(t, b.CanGoBack())

	b.GoForward()
	assert.Equal(t, origin+"/offers", b.CurrentURL())
	b.GoForward()
	assert.Equal(t, origin+"/pending-offer", b.CurrentURL())

	require.NoError(t, b.Load(origin+"/canceled-offer"))
	b.GoForward()
	assert.Equal(t, origin+"/canceled-offer", b.CurrentURL())

	assert.Equal(t, []string{
		origin + "/initial", origin + "/offers", origin + "/pending-offer",
		origin + "/offers", origin + "/initial", origin + "/offers", origin + "/pending-offer",
		origin + "/canceled-offer",
	}, seen)
}

func TestPostedEnvelopes(t *testing.T) {
	b := New(fixtures())
	require.NoError(t, b.Load(origin+"/initial"))
	var received []codec.Envelope
	b.OnPost(func(env codec.Envelope) { received = append(received, env) })

	env, err := codec.Encode(codec.ActionPushClaimCompleted, codec.PushClaimResultPayload{IsSuccess: true})
	require.NoError(t, err)
	b.EvaluateScript(codec.PostMessageScript(env), nil)
	b.EvaluateScript(`window.postMessage("not an envelope", "*")`, nil)
	b.EvaluateScript(`window.postMessage({a: 1}, "*")`, nil)

	require.Len(t, b.Posted(), 1)
	assert.Equal(t, received, b.Posted())
	assert.Equal(t, codec.ActionPushClaimCompleted, received[0].Action)
	assert.Equal(t, map[string]any{"isSuccess": true}, codec.Decode(received[0].Body()))
}

func TestHTTPFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "servicex-test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "<!DOCTYPE html><html><head><title>Hi</title></head><body>ok</body></html>")
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/page", http.StatusFound)
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"a":1}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewHTTPFetcher(0)

	page, err := f.Fetch(context.Background(), srv.URL+"/moved", "servicex-test")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/page", page.URL)
	assert.Contains(t, page.HTML, "<title>Hi</title>")

	_, err = f.Fetch(context.Background(), srv.URL+"/json", "servicex-test")
	assert.ErrorIs(t, err, ErrNotHTML)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing", "servicex-test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        string
	}{
		{"utf8 passthrough", []byte("<p>Xin chào</p>"), "text/html", "<p>Xin chào</p>"},
		{"declared latin1", []byte("<p>caf\xe9</p>"), "text/html; charset=iso-8859-1", "<p>café</p>"},
		{"unknown declared charset", []byte("<p>ok</p>"), "text/html; charset=nope", "<p>ok</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeBody(tt.body, tt.contentType))
		})
	}
}

func TestDetectCharset(t *testing.T) {
	got := DetectCharset([]byte("<html><body>Pr\xe9sentation du caf\xe9 et des cr\xe8mes</body></html>"))
	assert.NotEmpty(t, got)
	assert.Equal(t, strings.ToLower(got), got)
}
