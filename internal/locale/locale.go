// Package locale maps host languages onto the locale tags the web app routes by.
package locale

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

var supported = map[types.Language]language.Tag{
	types.LanguageVietnamese: language.MustParse("vi-VN"),
	types.LanguageJapanese:   language.MustParse("ja-JP"),
	types.LanguageEnglish:    language.MustParse("en-US"),
}

var (
	matcherTags = []language.Tag{language.English, language.Vietnamese, language.Japanese}
	matcher     = language.NewMatcher(matcherTags)
)

// Tag returns the locale path segment for lang, e.g. "vi-VN".
func Tag(lang types.Language) (string, bool) {
	tag, ok := supported[lang]
	if !ok {
		return "", false
	}
	return tag.String(), true
}

func isLocaleSegment(seg string) bool {
	for _, tag := range supported {
		if tag.String() == seg {
			return true
		}
	}
	return false
}

// Detect picks a supported language from an Accept-Language style list such
// as a device preference. It returns "" when nothing matches.
func Detect(preferred string) types.Language {
	tags, _, err := language.ParseAcceptLanguage(preferred)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	base, _ := matcherTags[idx].Base()
	lang := types.Language(base.String())
	if _, ok := supported[lang]; !ok {
		return ""
	}
	return lang
}

// AddLocaleToURL appends the locale segment for lang to the URL path. The URL
// is returned unchanged when lang is unset or unsupported, or when the path
// already ends with a supported locale. Query strings are preserved.
func AddLocaleToURL(raw string, lang types.Language) string {
	if raw == "" || lang == "" {
		return raw
	}
	seg, ok := Tag(lang)
	if !ok {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := strings.Split(u.Path, "/")
	if isLocaleSegment(parts[len(parts)-1]) {
		return raw
	}
	if strings.HasSuffix(u.Path, "/") {
		u.Path += seg
	} else {
		u.Path += "/" + seg
	}
	return u.String()
}

// AppLanguageScript returns the document-start script exposing the language
// to the web app.
func AppLanguageScript(lang types.Language) (string, bool) {
	if lang == "" {
		return "", false
	}
	return fmt.Sprintf("window.appLanguage = '%s';", lang), true
}
