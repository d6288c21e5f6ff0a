package provider

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xxxsen/tldx/internal/suffix"
)

// privateSectionMarker starts the privately registered part of the public
// suffix list.
const privateSectionMarker = "// ===BEGIN PRIVATE DOMAINS==="

// Params are decoded from the query string of a provider link.
type Params struct {
	ICANNOnly bool `schema:"icann_only"`
}

// IRuleProvider loads public suffix ruleset text from a source.
type IRuleProvider interface {
	Name() string
	Provide() (string, error)
}

type Factory func(uri *url.URL, params *Params) (IRuleProvider, error)

var m = make(map[string]Factory)

func Register(scheme string, fac Factory) {
	m[scheme] = fac
}

// MakeProvider builds a provider from a link such as
// "file:///etc/tldx/public_suffix_list.dat?icann_only=true".
func MakeProvider(link string) (IRuleProvider, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("empty ruleset source")
	}
	uri, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("parse ruleset source %q: %w", link, err)
	}
	cr, ok := m[uri.Scheme]
	if !ok {
		return nil, fmt.Errorf("no ruleset provider found, scheme:%s", uri.Scheme)
	}
	params := &Params{}
	if err := decodeParams(params, uri.Query()); err != nil {
		return nil, fmt.Errorf("decode ruleset source params: %w", err)
	}
	p, err := cr(uri, params)
	if err != nil {
		return nil, err
	}
	if params.ICANNOnly {
		p = &icannFilter{next: p}
	}
	return p, nil
}

func decodeParams(out interface{}, in map[string][]string) error {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d.Decode(out, in)
}

// AsSource adapts a provider to the suffix cache.
func AsSource(p IRuleProvider) suffix.Provider {
	return p.Provide
}

type icannFilter struct {
	next IRuleProvider
}

func (f *icannFilter) Name() string {
	return fmt.Sprintf("icann(%s)", f.next.Name())
}

func (f *icannFilter) Provide() (string, error) {
	text, err := f.next.Provide()
	if err != nil {
		return "", err
	}
	return ICANNSection(text), nil
}

// ICANNSection drops the private domains section of a public suffix list.
func ICANNSection(text string) string {
	if idx := strings.Index(text, privateSectionMarker); idx >= 0 {
		return text[:idx]
	}
	return text
}
