// Package migrate moves parsed Markdown posts into a post store. The store
// is reached only through the optional functions in Collaborators, so the
// engine runs the same way against the bun repositories, an in-memory map
// or test doubles.
package migrate
