// Package page models the product page the butler widget floats over: the
// embedded page document, scroll-triggered reveal and lazy image loading.
package page

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Anchor names the widget and page helpers look up.
const (
	AnchorNav          = "nav"
	AnchorWidget       = "butler-widget"
	AnchorFAB          = "butler-fab"
	AnchorOpen         = "open-butler"
	AnchorClose        = "close-butler"
	AnchorMessages     = "butler-messages"
	AnchorQuickReplies = "butler-quick-replies"
	AnchorInput        = "butler-input"
	AnchorSend         = "butler-send"
)

// Document is the parsed page.
type Document struct {
	Title    string     `yaml:"title"`
	Tagline  string     `yaml:"tagline"`
	Anchors  []string   `yaml:"anchors"`
	Nav      *Nav       `yaml:"nav"`
	Sections []*Section `yaml:"sections"`
}

// Nav is the top navigation bar.
type Nav struct {
	Items []string `yaml:"items"`
	Classes
}

// Section is one block of page content.
type Section struct {
	ID              string    `yaml:"id"`
	Title           string    `yaml:"title"`
	Body            string    `yaml:"body"`
	AnimateOnScroll bool      `yaml:"animate_on_scroll"`
	Products        []Product `yaml:"products"`
	Articles        []Article `yaml:"articles"`
	Images          []*Image  `yaml:"images"`

	Classes
	Box
}

// Product is a priced catalog entry.
type Product struct {
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	OriginalPrice float64 `yaml:"original_price"`
	Summary       string  `yaml:"summary"`
}

// Article is a knowledge-base link.
type Article struct {
	Title     string `yaml:"title"`
	Published string `yaml:"published"`
}

// Image is a picture whose source may be deferred via DataSrc.
type Image struct {
	Alt     string `yaml:"alt"`
	Src     string `yaml:"src"`
	DataSrc string `yaml:"data_src"`

	Box
}

// Deferred reports whether the image still waits for lazy loading.
func (img *Image) Deferred() bool {
	return img.DataSrc != ""
}

// Box is an element's laid-out position in rows.
type Box struct {
	Top    int `yaml:"-"`
	Height int `yaml:"-"`
}

// SetBounds records the element's position after layout.
func (b *Box) SetBounds(top, height int) {
	b.Top = top
	b.Height = height
}

// Bounds returns the element's position.
func (b *Box) Bounds() (top, height int) {
	return b.Top, b.Height
}

// Classes is a small class list.
type Classes struct {
	list []string
}

func (c *Classes) Add(name string) {
	if !c.Has(name) {
		c.list = append(c.list, name)
	}
}

func (c *Classes) Remove(name string) {
	c.list = slices.DeleteFunc(c.list, func(s string) bool { return s == name })
}

func (c *Classes) Has(name string) bool {
	return slices.Contains(c.list, name)
}

// Parse decodes a page document from YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	seen := make(map[string]bool, len(doc.Sections))
	for i, s := range doc.Sections {
		if s == nil {
			return nil, fmt.Errorf("section %d is empty", i)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("section %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate section id: %s", s.ID)
		}
		seen[s.ID] = true
		for j, img := range s.Images {
			if img == nil {
				return nil, fmt.Errorf("section %q image %d is empty", s.ID, j)
			}
		}
	}
	if !doc.HasAnchor(AnchorNav) {
		doc.Nav = nil
	}
	return &doc, nil
}

// Default returns the embedded page.
func Default() (*Document, error) {
	return Parse(defaultContent)
}

// Load reads a page file, or the embedded page when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return Parse(data)
}

// HasAnchor reports whether the document declares the named anchor.
func (d *Document) HasAnchor(name string) bool {
	return slices.Contains(d.Anchors, name)
}

// HasButler reports whether the widget's container and trigger are present.
func (d *Document) HasButler() bool {
	return d.HasAnchor(AnchorWidget) && d.HasAnchor(AnchorFAB)
}

// Images returns every image in document order.
func (d *Document) Images() []*Image {
	var out []*Image
	for _, s := range d.Sections {
		out = append(out, s.Images...)
	}
	return out
}
