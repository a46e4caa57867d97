// Package render turns a collected item table into the static archive page:
// a table of contents over the thread roots followed by the nested threads
// themselves.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/hnlog/hnlog/collect"
	"github.com/hnlog/hnlog/hn"
	"github.com/hnlog/hnlog/readability"
)

//go:embed template.html
var templateHTML string

var tmpl = template.Must(template.New("archive").Funcs(template.FuncMap{
	// Item text has already been through the sanitizer; emit it as-is.
	"raw":  func(s string) template.HTML { return template.HTML(s) },
	"node": func(p *Page, id int) node { return node{Page: p, ID: id} },
}).Parse(templateHTML))

// Page is everything the template needs for one archive.
type Page struct {
	Usernames []string
	Items     collect.Items
	Roots     []int
	Articles  map[int]*readability.Article
}

// node is the recursion context for the per-item template: the page plus
// the ID of the item being rendered.
type node struct {
	Page *Page
	ID   int
}

func (n node) Item() *hn.Item { return n.Page.Items[n.ID] }

func (p *Page) Title() string {
	return strings.Join(p.Usernames, ", ") + "'s comments"
}

func (p *Page) Item(id int) *hn.Item { return p.Items[id] }

// FromMe reports whether by is one of the archived users; their items are
// highlighted and never collapsed.
func (p *Page) FromMe(by string) bool {
	return slices.Contains(p.Usernames, by)
}

func (p *Page) CSSID(item *hn.Item) string {
	return fmt.Sprintf("%s-%d", item.Type, item.ID)
}

// Collapsed reports whether an item starts out folded: replies by other
// users, but never thread roots.
func (p *Page) Collapsed(item *hn.Item) bool {
	return !p.FromMe(item.By) && item.Parent != nil
}

func (p *Page) ArticleFor(id int) *readability.Article {
	return p.Articles[id]
}

// Render writes the archive page for p to w.
func Render(w io.Writer, p *Page) error {
	return tmpl.Execute(w, p)
}
