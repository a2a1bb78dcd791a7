package api

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints derives every invoice service address from a single collection root.
type Endpoints struct {
	root string
}

// NewEndpoints validates root and returns the derived endpoints.
// A trailing slash on root is ignored.
func NewEndpoints(root string) (Endpoints, error) {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		return Endpoints{}, fmt.Errorf("%w: empty base URL", ErrInvalidBaseURL)
	}

	u, err := url.Parse(root)
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, root)
	}

	return Endpoints{root: root}, nil
}

// Collection is the address of the invoice collection.
func (e Endpoints) Collection() string {
	return e.root
}

// Invoice is the address of a single invoice.
func (e Endpoints) Invoice(id string) string {
	return e.root + "/" + url.PathEscape(id)
}

// PDF is the address of the rendered document of an invoice.
func (e Endpoints) PDF(id string) string {
	return e.root + "/pdf/" + url.PathEscape(id)
}
