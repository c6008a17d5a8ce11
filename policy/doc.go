// Package policy provides optional allow and block rules applied to
// experiment IDs when a catalog is loaded.
package policy
