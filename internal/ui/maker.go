package ui

import tea "charm.land/bubbletea/v2"

// Maker creates panels on demand.
type Maker interface {
	Make(id string, width, height int) (ChildModel, tea.Cmd)
}

// MakerFunc adapts a function to Maker.
type MakerFunc func(id string, width, height int) (ChildModel, tea.Cmd)

// Make implements Maker.
func (f MakerFunc) Make(id string, width, height int) (ChildModel, tea.Cmd) {
	return f(id, width, height)
}

// CachedMaker keeps every panel it creates so switching tabs preserves cursor,
// filters and collapse state.
type CachedMaker struct {
	maker Maker
	cache map[string]ChildModel
}

// NewCachedMaker wraps maker.
func NewCachedMaker(maker Maker) *CachedMaker {
	return &CachedMaker{maker: maker, cache: make(map[string]ChildModel)}
}

// Make returns the cached panel for id, resized, or creates it.
func (c *CachedMaker) Make(id string, width, height int) (ChildModel, tea.Cmd) {
	if model, ok := c.cache[id]; ok {
		if sized, ok := model.(ModelWithSize); ok {
			sized.SetSize(width, height)
		}
		return model, nil
	}
	model, cmd := c.maker.Make(id, width, height)
	c.cache[id] = model
	return model, cmd
}

// Put replaces the cached panel for id.
func (c *CachedMaker) Put(id string, model ChildModel) {
	c.cache[id] = model
}

// Get returns the cached panel for id without creating it.
func (c *CachedMaker) Get(id string) (ChildModel, bool) {
	model, ok := c.cache[id]
	return model, ok
}

// Has reports whether a panel for id exists.
func (c *CachedMaker) Has(id string) bool {
	_, ok := c.cache[id]
	return ok
}

// Remove drops the cached panel for id.
func (c *CachedMaker) Remove(id string) {
	delete(c.cache, id)
}
