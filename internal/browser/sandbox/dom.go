package sandbox

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element properties that are not copied to attributes on appendChild
var elementProps = map[string]bool{"tagName": true, "textContent": true}

// newDocument exposes the subset of the DOM API the bridge scripts use.
func newDocument(vm *goja.Runtime, doc *goquery.Document) *goja.Object {
	d := vm.NewObject()

	_ = d.Set("title", doc.Find("title").First().Text())
	_ = d.Set("getElementById", func(id string) goja.Value {
		sel := doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr("id")
			return v == id
		})
		if sel.Length() == 0 {
			return goja.Null()
		}
		return vm.ToValue(elementProxy(vm, sel.First()))
	})
	_ = d.Set("getElementsByTagName", func(tag string) []any {
		var out []any
		doc.Find(strings.ToLower(tag)).Each(func(_ int, s *goquery.Selection) {
			out = append(out, elementProxy(vm, s))
		})
		if out == nil {
			out = []any{}
		}
		return out
	})
	_ = d.Set("querySelector", func(selector string) goja.Value {
		sel, err := find(doc.Selection, selector)
		if err != nil {
			panic(vm.NewTypeError(err.Error()))
		}
		if sel.Length() == 0 {
			return goja.Null()
		}
		return vm.ToValue(elementProxy(vm, sel.First()))
	})
	_ = d.Set("createElement", func(tag string) map[string]any {
		return map[string]any{"tagName": strings.ToUpper(tag)}
	})

	return d
}

// find runs a CSS selector, converting selector panics into errors.
func find(s *goquery.Selection, selector string) (sel *goquery.Selection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid selector %q: %v", selector, r)
		}
	}()
	return s.Find(selector), nil
}

func elementProxy(vm *goja.Runtime, s *goquery.Selection) map[string]any {
	id, _ := s.Attr("id")
	return map[string]any{
		"tagName":     strings.ToUpper(goquery.NodeName(s)),
		"id":          id,
		"textContent": s.Text(),
		"getAttribute": func(name string) any {
			if v, ok := s.Attr(name); ok {
				return v
			}
			return nil
		},
		"setAttribute": func(name, value string) {
			s.SetAttr(name, value)
		},
		"appendChild": func(child map[string]any) map[string]any {
			s.AppendNodes(buildNode(child))
			return child
		},
		"remove": func() {
			s.Remove()
		},
	}
}

// buildNode turns an element created by createElement into an html node.
// String properties set by the script become attributes.
func buildNode(el map[string]any) *html.Node {
	tag := strings.ToLower(fmt.Sprint(el["tagName"]))
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}

	keys := make([]string, 0, len(el))
	for k := range el {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := el[k].(string)
		if !ok || elementProps[k] {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	if text, ok := el["textContent"].(string); ok && text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
