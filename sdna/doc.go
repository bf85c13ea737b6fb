// Package sdna parses the schema catalog ("SDNA") embedded in every .blend file.
//
// The catalog lists every type the writing build knew about: primitive types with their
// sizes and struct types with their ordered fields. Field offsets are not stored; they
// are the running sum of the preceding field sizes, where pointer fields use the file's
// pointer width. Offsets are computed once per struct and cached.
//
// Field names are stored with their C declarator, so "*next", "co[3]" and "(*func)()"
// are all valid names. ParseFieldName strips the declarator; every lookup in this package
// canonicalizes its argument the same way, so callers may use either form.
//
// Looking up a field that a struct does not declare is not an error. The same reader
// code runs against files written by many versions, and fields come and go between them.
// Offset reports (-1, false) and leaves it to the caller to decide.
//
// Example:
//
//	cat, err := sdna.Parse(dnaPayload, engine, 8)
//	if err != nil {
//	    return err
//	}
//	mesh, _ := cat.Struct("Mesh")
//	off, ok := mesh.Offset("totvert")
package sdna
