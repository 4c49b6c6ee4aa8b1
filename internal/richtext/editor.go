package richtext

import (
	"sync"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// Editor is the default in-process rich-text editor. It keeps the edited
// HTML in memory and fans content changes out to registered listeners.
type Editor struct {
	mu        sync.RWMutex
	html      string
	listeners []func(string)
	destroyed bool
}

var _ interfaces.RichTextEditor = (*Editor)(nil)

func NewEditor(initialHTML string) *Editor {
	return &Editor{html: initialHTML}
}

func (e *Editor) HTML() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.html
}

func (e *Editor) SetHTML(html string) {
	e.mu.Lock()
	if e.destroyed || e.html == html {
		e.mu.Unlock()
		return
	}
	e.html = html
	listeners := make([]func(string), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, listener := range listeners {
		listener(html)
	}
}

func (e *Editor) OnChange(fn func(html string)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.listeners = append(e.listeners, fn)
}

func (e *Editor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
	e.listeners = nil
}

// Factory creates Editor instances for the form assembler.
type Factory struct{}

var _ interfaces.RichTextFactory = (*Factory)(nil)

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(containerID, initialHTML string) (interfaces.RichTextEditor, error) {
	_ = containerID
	return NewEditor(initialHTML), nil
}
