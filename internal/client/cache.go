package client

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Key identifies a cached read. Two keys are equal when their paths are
// equal and their params encode to the same canonical string.
type Key struct {
	Path   string
	Params url.Values
}

// NewKey builds a key from a path and alternating param names and values
func NewKey(path string, params ...string) Key {
	key := Key{Path: path}
	if len(params) > 1 {
		key.Params = url.Values{}
		for i := 0; i+1 < len(params); i += 2 {
			key.Params.Add(params[i], params[i+1])
		}
	}
	return key
}

// String is the canonical form: params sorted by name, then by value
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Path
	}
	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		values := append([]string(nil), k.Params[name]...)
		sort.Strings(values)
		for _, v := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(name))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return k.Path + "?" + b.String()
}

// URL is the request target for the key
func (k Key) URL() string {
	if len(k.Params) == 0 {
		return k.Path
	}
	return k.Path + "?" + k.Params.Encode()
}

type entry struct {
	path string
	body []byte
}

// cache stores raw response bodies by canonical key
type cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func newCache() *cache {
	return &cache{entries: map[string]entry{}}
}

func (c *cache) get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return e.body, ok
}

// put stores body; the last completed fetch wins
func (c *cache) put(key Key, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = entry{path: key.Path, body: body}
}

// invalidate drops every entry whose path equals one of paths exactly
func (c *cache) invalidate(paths ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		for _, p := range paths {
			if e.path == p {
				delete(c.entries, k)
				n++
				break
			}
		}
	}
	return n
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry{}
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
