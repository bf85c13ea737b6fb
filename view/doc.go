// Package view reads struct instances out of a .blend file image by field name.
//
// A View pairs a catalog struct with a file position. Field offsets come from the
// file's own catalog, so the same code reads files whose layouts differ between
// versions. Pointer fields are followed through the block table of the file's Context:
//
//	obj := f.Instances("Object")[0]
//	mesh, err := obj.Pointer("data")
//	verts, err := mesh.ArrayOf("mvert", "totvert")
//	for i, v := range verts.All() {
//	    co := v.Float32s("co", 3)
//	}
//
// # Soft failures
//
// Missing fields, dangling pointers and similar mismatches do not abort a decode. They
// are returned as *Diagnostic errors, which unwrap to the errs sentinels, and are
// reported once to the handler installed with WithDiagnostics. Accessors without an
// error result (Int32, Float32s, Offset, ...) return zero values in that case.
//
// # Pointer resolution
//
//   - a null pointer yields an invalid View and no error
//   - a pointer declared with an off-heap struct type is resolved in that group's table
//   - a void pointer, or a pointer to pointers, takes the struct of the block it points into
//
// Linked lists (List) and arrays (Array) are computed lazily from these primitives.
package view
