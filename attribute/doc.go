// Package attribute reads the per-element data layers of geometry datablocks.
//
// Two storage schemes exist across file versions:
//
//   - CustomData: the legacy layered storage (Mesh.vdata, Mesh.ldata, ...). Each Layer
//     carries a CustomDataType tag and points to a block of layer elements.
//   - Storage: the generic attribute list of newer files (Mesh.attribute_storage). Each
//     Attribute carries a data type, a domain and a storage kind tag.
//
// All tags are file data, so conversions are fallible: an unknown tag is reported as a
// view.KindUnknownTag diagnostic. Lookups by name and expected type never fail hard;
// a missing or mismatched attribute reports exactly one diagnostic and returns it.
//
// # Basic Usage
//
//	storage := attribute.NewStorage(attrView)
//	pos, err := storage.Lookup("position", format.DataTypeFloat3, format.StorageArray)
//	if err != nil {
//		return err // *view.Diagnostic, already reported
//	}
//	values, err := pos.Values()
//	for i := range values.Len() {
//		p := values.Float3(i)
//	}
package attribute
