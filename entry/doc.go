// Package entry defines the searchable record shape shared by the tree,
// rank, index, and discovery packages.
//
// An [Entry] is one navigation target (a file, URL, editor command, shell
// command, snippet, or markdown note) flattened out of a user's hierarchy.
// The ranking engine never looks at an Entry's Go fields directly. It asks
// for named fields through [Entry.Field], or through any [FieldFunc] the
// caller supplies for its own record type:
//
//	label, ok := e.Field(entry.FieldLabel)
//
// # Back-references
//
// Each Entry carries a [Ref], the index path of its node in the source tree.
// The tree package owns the meaning of a Ref; everything else treats it as
// an opaque handle used to dispatch the entry's action after selection.
package entry
