// Package surface models the rendered visual surface of a moodboard.
//
// A [Document] holds two shared resources: the stylesheet links registered
// by font provisioning, and the node trees mounted under surface ids. Both
// are passed explicitly to the components that touch them, so tests can
// substitute a fresh Document.
//
// Node trees are not safe for concurrent mutation. Callers serialize
// exports against the same surface.
package surface
