package browser

import (
	"context"
	"errors"
	"time"
)

// ErrElementNotFound is returned when no locator strategy produced a usable
// element. Callers treat it as a recoverable condition, not a failure.
var ErrElementNotFound = errors.New("element not found")

// OptionItem describes a single option of a select element
type OptionItem struct {
	Text  string
	Value string
}

// Element is a handle on a located page element
type Element interface {
	Text() (string, error)
	TagName() (string, error)
	Attribute(name string) (string, error)
	Click() error
	Clear() error
	Input(text string) error
	SelectByText(text string) error
	SelectByValue(value string) error
	Options() ([]OptionItem, error)
	SetFiles(paths []string) error
	Visible() bool
	Interactable() bool
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	Parent() (Element, error)
	HTML() (string, error)
	ScrollIntoView() error
}

// Driver abstracts the browser capabilities the automation engine depends on.
// Implementations drive a real browser; tests substitute scripted fakes.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() (string, error)
	PageHTML() (string, error)
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	Scroll(deltaY float64) error
	PressEnter() error
	PressEscape() error
	Close() error
}
