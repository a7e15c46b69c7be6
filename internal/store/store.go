// Package store holds the live state document that inspector edits are written to.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

var (
	// ErrPathNotFound is returned when a path does not address an existing value.
	ErrPathNotFound = errors.New("path not found")
	// ErrInvalidDocument is returned when the initial document is not JSON.
	ErrInvalidDocument = errors.New("invalid JSON document")
)

// Store is a JSON document addressed by inspector paths.
type Store struct {
	doc     string
	version int
}

// New returns a store holding v.
func New(v inspector.Value) *Store {
	return &Store{doc: v.JSON()}
}

// Parse returns a store holding the JSON document doc.
func Parse(doc string) (*Store, error) {
	if !gjson.Valid(doc) {
		return nil, ErrInvalidDocument
	}
	return &Store{doc: doc}, nil
}

// Value decodes the document, keeping key order.
func (s *Store) Value() inspector.Value {
	return inspector.FromJSON(gjson.Parse(s.doc))
}

// JSON returns the compact document.
func (s *Store) JSON() string { return s.doc }

// Pretty returns the document indented with two spaces.
func (s *Store) Pretty() string {
	return gjson.Get(s.doc, "@pretty").Raw
}

// Version counts successful writes.
func (s *Store) Version() int { return s.version }

// Get returns the raw JSON stored at p.
func (s *Store) Get(p inspector.Path) (string, error) {
	if p.IsRoot() {
		return s.doc, nil
	}
	gp, err := queryPath(p)
	if err != nil {
		return "", err
	}
	r := gjson.Get(s.doc, gp)
	if !r.Exists() {
		return "", fmt.Errorf("get %s: %w", p, ErrPathNotFound)
	}
	return r.Raw, nil
}

// Set replaces the value at p. The parent of p must exist; the last segment may add a
// new key or append at the end of an array.
func (s *Store) Set(p inspector.Path, v inspector.Value) error {
	raw := v.JSON()
	if p.IsRoot() {
		s.doc = raw
		s.version++
		return nil
	}
	if _, err := s.Get(p.Parent()); err != nil {
		return fmt.Errorf("set %s: %w", p, ErrPathNotFound)
	}
	gp, err := queryPath(p)
	if err != nil {
		return err
	}
	doc, err := sjson.SetRaw(s.doc, gp, raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	s.doc = doc
	s.version++
	return nil
}

// Addressable reports whether Get and Set can reach p. Keys that are the empty string
// have no gjson path form.
func Addressable(p inspector.Path) bool {
	_, err := queryPath(p)
	return err == nil
}

// queryPath converts p to gjson/sjson path syntax, escaping keys.
func queryPath(p inspector.Path) (string, error) {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.IsIndex() {
			parts[i] = strconv.Itoa(seg.Pos())
			continue
		}
		if seg.Name() == "" {
			return "", fmt.Errorf("path %s: empty keys cannot be addressed: %w", p, ErrPathNotFound)
		}
		parts[i] = gjson.Escape(seg.Name())
	}
	return strings.Join(parts, "."), nil
}
