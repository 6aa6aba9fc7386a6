package surface

import (
	"slices"
	"strconv"
	"sync"

	"github.com/moodmagic/moodmagic/pkg/errors"
)

// LinkID identifies a registered stylesheet link.
type LinkID string

// Link is a stylesheet reference registered with a Document.
type Link struct {
	ID   LinkID
	Href string
}

// Registry is the stylesheet side of a Document.
type Registry interface {
	AddStylesheet(href string) LinkID
	RemoveStylesheet(id LinkID) bool
	Stylesheets() []Link
}

// Document is the style registry plus the mounted surfaces.
type Document struct {
	mu      sync.Mutex
	links   []Link
	nextID  int
	mounted map[string]*Node
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{mounted: make(map[string]*Node)}
}

// AddStylesheet registers href and returns a handle for removing it.
func (d *Document) AddStylesheet(href string) LinkID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := LinkID("link-" + strconv.Itoa(d.nextID))
	d.links = append(d.links, Link{ID: id, Href: href})
	return id
}

// RemoveStylesheet removes the link with id. It reports whether a link was
// removed; removing an unknown id is a no-op.
func (d *Document) RemoveStylesheet(id LinkID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.links, func(l Link) bool { return l.ID == id })
	if i < 0 {
		return false
	}
	d.links = slices.Delete(d.links, i, i+1)
	return true
}

// Stylesheets returns the registered links in registration order.
func (d *Document) Stylesheets() []Link {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.links)
}

// Mount registers root under its id, replacing any surface with that id.
func (d *Document) Mount(root *Node) error {
	if root == nil || root.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "surface root must have an id")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted[root.ID] = root
	return nil
}

// Unmount removes the surface with id, if any.
func (d *Document) Unmount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.mounted, id)
}

// Lookup returns the surface root mounted under id.
func (d *Document) Lookup(id string) (*Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.mounted[id]
	return n, ok
}
