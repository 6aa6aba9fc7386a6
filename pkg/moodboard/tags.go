package moodboard

import (
	"encoding/json"
	"slices"
	"strings"
)

// VibeTags is the catalog of style tags offered when describing a vibe.
var VibeTags = []string{
	"Luxury", "Retro", "Minimal", "Earthy", "Y2K",
	"Futuristic", "Bohemian", "Industrial", "Vintage", "Modern",
	"Coastal", "Scandinavian", "Art Deco", "Mid-Century", "Contemporary",
}

// TagSet is an unordered set of tags. It marshals as a sorted array.
type TagSet map[string]struct{}

// NewTagSet builds a set from tags, dropping blanks.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Toggle adds tag if absent, otherwise removes it.
func (s TagSet) Toggle(tag string) {
	if s.Has(tag) {
		delete(s, tag)
		return
	}
	s[tag] = struct{}{}
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Equal compares two sets regardless of insertion order.
func (s TagSet) Equal(o TagSet) bool {
	if len(s) != len(o) {
		return false
	}
	for t := range s {
		if !o.Has(t) {
			return false
		}
	}
	return true
}

func (s TagSet) clone() TagSet {
	c := make(TagSet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
