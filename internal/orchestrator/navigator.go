package orchestrator

import "github.com/pkg/browser"

// Navigator opens an address for the user to look at.
type Navigator interface {
	Open(url string) error
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(url string) error

func (f NavigatorFunc) Open(url string) error {
	return f(url)
}

// BrowserNavigator opens addresses in the system browser.
type BrowserNavigator struct{}

func (BrowserNavigator) Open(url string) error {
	return browser.OpenURL(url)
}
