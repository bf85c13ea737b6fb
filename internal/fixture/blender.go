package fixture

// Trimmed-down versions of the Blender structs the domain views read. Field names and
// order match real files; members the views never touch are left out or folded into
// padding.

func (b *Builder) declareCommon() {
	if b.HasStruct("ID") {
		return
	}
	b.Struct("ID",
		F("void", "*next"), F("void", "*prev"), F("ID", "*newid"), F("void", "*lib"),
		F("char", "name[66]"), F("short", "flag"), F("int", "tag"), F("int", "us"),
	)
	b.Struct("ListBase", F("void", "*first"), F("void", "*last"))
	b.Struct("Link", F("Link", "*next"), F("Link", "*prev"))
	b.Struct("FileGlobal",
		F("char", "subvstr[4]"), F("short", "subversion"), F("short", "minversion"),
		F("void", "*curscreen"), F("void", "*curscene"), F("int", "fileflags"), F("int", "globalf"),
	)
	b.Struct("TreeStoreElem", F("short", "type"), F("short", "nr"), F("short", "flag"), F("short", "used"), F("ID", "*id"))

	b.Struct("MVert", F("float", "co[3]"), F("short", "no[3]"), F("char", "flag"), F("char", "bweight"))
	b.Struct("MEdge", F("int", "v1"), F("int", "v2"), F("char", "crease"), F("char", "bweight"), F("short", "flag"))
	b.Struct("MPoly", F("int", "loopstart"), F("int", "totloop"), F("short", "mat_nr"), F("char", "flag"), F("char", "_pad"))
	b.Struct("MLoop", F("int", "v"), F("int", "e"))
	b.Struct("MLoopUV", F("float", "uv[2]"), F("int", "flag"))
	b.Struct("MLoopCol", F("uchar", "r"), F("uchar", "g"), F("uchar", "b"), F("uchar", "a"))

	b.Struct("CustomDataLayer",
		F("int", "type"), F("int", "offset"), F("int", "flag"), F("int", "active"),
		F("int", "active_rnd"), F("int", "active_clone"), F("int", "active_mask"), F("int", "uid"),
		F("char", "name[64]"), F("void", "*data"),
	)
	b.Struct("CustomData",
		F("CustomDataLayer", "*layers"), F("int", "typemap[52]"), F("int", "totlayer"),
		F("int", "maxlayer"), F("int", "totsize"), F("char", "_pad[4]"),
	)

	b.Struct("bNodeSocket",
		F("bNodeSocket", "*next"), F("bNodeSocket", "*prev"),
		F("char", "identifier[64]"), F("char", "name[64]"), F("char", "idname[64]"),
		F("short", "type"), F("char", "_pad[6]"), F("void", "*default_value"),
	)
	b.Struct("bNode",
		F("bNode", "*next"), F("bNode", "*prev"), F("ListBase", "inputs"), F("ListBase", "outputs"),
		F("char", "name[64]"), F("char", "idname[64]"), F("short", "type"), F("char", "_pad[2]"),
		F("float", "locx"), F("float", "locy"), F("ID", "*id"),
	)
	b.Struct("bNodeLink",
		F("bNodeLink", "*next"), F("bNodeLink", "*prev"),
		F("bNode", "*fromnode"), F("bNode", "*tonode"),
		F("bNodeSocket", "*fromsock"), F("bNodeSocket", "*tosock"),
	)
	b.Struct("bNodeTree", F("ID", "id"), F("ListBase", "nodes"), F("ListBase", "links"), F("char", "idname[64]"))
	b.Struct("bNodeSocketValueFloat", F("int", "subtype"), F("float", "value"), F("float", "min"), F("float", "max"))
	b.Struct("bNodeSocketValueInt", F("int", "subtype"), F("int", "value"), F("int", "min"), F("int", "max"))
	b.Struct("bNodeSocketValueBoolean", F("char", "value"), F("char", "_pad[3]"))
	b.Struct("bNodeSocketValueVector", F("int", "subtype"), F("float", "value[3]"), F("float", "min"), F("float", "max"))
	b.Struct("bNodeSocketValueRGBA", F("float", "value[4]"))
	b.Struct("bNodeSocketValueRotation", F("float", "value_euler[3]"))

	b.Struct("PackedFile", F("int", "size"), F("int", "seek"), F("void", "*data"))
	b.Struct("ImagePackedFile",
		F("ImagePackedFile", "*next"), F("ImagePackedFile", "*prev"), F("PackedFile", "*packedfile"),
		F("char", "filepath[1024]"), F("int", "view"), F("int", "tile_number"),
	)
	b.Struct("Image",
		F("ID", "id"), F("char", "filepath[1024]"), F("PackedFile", "*packedfile"), F("ListBase", "packedfiles"),
	)

	b.Struct("bDeformGroup", F("bDeformGroup", "*next"), F("bDeformGroup", "*prev"), F("char", "name[64]"), F("char", "flag"), F("char", "_pad0[7]"))
	b.Struct("MDeformWeight", F("uint", "def_nr"), F("float", "weight"))
	b.Struct("MDeformVert", F("MDeformWeight", "*dw"), F("int", "totweight"), F("int", "flag"))

	b.Struct("Bone",
		F("Bone", "*next"), F("Bone", "*prev"), F("void", "*prop"), F("Bone", "*parent"), F("ListBase", "childbase"),
		F("char", "name[64]"), F("float", "roll"), F("float", "head[3]"), F("float", "tail[3]"), F("int", "flag"),
		F("float", "arm_head[3]"), F("float", "arm_tail[3]"), F("float", "arm_mat[4][4]"), F("float", "length"),
	)
	b.Struct("bArmature", F("ID", "id"), F("ListBase", "bonebase"), F("int", "flag"), F("int", "drawtype"))
	b.Struct("bPoseChannel",
		F("bPoseChannel", "*next"), F("bPoseChannel", "*prev"), F("char", "name[64]"),
		F("Bone", "*bone"), F("bPoseChannel", "*parent"),
		F("float", "loc[3]"), F("float", "size[3]"), F("float", "eul[3]"), F("float", "quat[4]"),
		F("short", "rotmode"), F("char", "_pad[2]"), F("float", "pose_mat[4][4]"),
	)
	b.Struct("bPose", F("ListBase", "chanbase"), F("short", "flag"), F("char", "_pad[6]"))

	b.Struct("BezTriple",
		F("float", "vec[3][3]"), F("float", "alfa"), F("float", "weight"), F("float", "radius"),
		F("char", "ipo"), F("uint8_t", "h1"), F("uint8_t", "h2"), F("uint8_t", "f1"),
	)
	b.Struct("FCurve",
		F("FCurve", "*next"), F("FCurve", "*prev"), F("void", "*grp"), F("void", "*driver"), F("ListBase", "modifiers"),
		F("BezTriple", "*bezt"), F("void", "*fpt"), F("uint", "totvert"), F("int", "active_keyframe_index"),
		F("char", "*rna_path"), F("int", "array_index"), F("short", "flag"), F("short", "extend"),
	)
	b.Struct("bAction", F("ID", "id"), F("ListBase", "curves"), F("ListBase", "groups"), F("int", "flag"), F("float", "frame_start"), F("float", "frame_end"), F("char", "_pad[4]"))
	b.Struct("AnimData", F("bAction", "*action"), F("bAction", "*tmpact"), F("ListBase", "nla_tracks"))
	b.Struct("Camera",
		F("ID", "id"), F("char", "type"), F("char", "_pad[3]"),
		F("float", "lens"), F("float", "clip_start"), F("float", "clip_end"),
	)
	b.Struct("Lamp",
		F("ID", "id"), F("short", "type"), F("short", "flag"),
		F("float", "r"), F("float", "g"), F("float", "b"), F("float", "energy"),
	)
	b.Struct("Material",
		F("ID", "id"), F("short", "flag"), F("char", "_pad[2]"),
		F("float", "r"), F("float", "g"), F("float", "b"), F("float", "a"),
		F("float", "metallic"), F("float", "roughness"), F("bNodeTree", "*nodetree"),
	)
	b.Struct("Object",
		F("ID", "id"), F("AnimData", "*adt"), F("Object", "*parent"), F("void", "*data"), F("short", "type"), F("char", "_pad[6]"),
		F("float", "loc[3]"), F("float", "rot[3]"), F("float", "scale[3]"), F("float", "obmat[4][4]"),
		F("Material", "**mat"), F("int", "totcol"), F("char", "_pad1[4]"),
		F("ListBase", "modifiers"), F("ListBase", "defbase"), F("bPose", "*pose"),
	)
	b.Struct("ModifierData", F("ModifierData", "*next"), F("ModifierData", "*prev"), F("int", "type"), F("int", "mode"), F("char", "name[64]"))
	b.Struct("ArmatureModifierData",
		F("ModifierData", "modifier"), F("short", "deformflag"), F("short", "multi"), F("char", "_pad2[4]"),
		F("Object", "*object"), F("char", "defgrp_name[64]"),
	)
}

// BlenderLegacy declares the Blender 2.8x-3.x schema: element arrays (mvert, mloop, ...)
// and CustomData layers on the Mesh.
func (b *Builder) BlenderLegacy() *Builder {
	b.declareCommon()
	b.Struct("Mesh",
		F("ID", "id"), F("Material", "**mat"),
		F("MVert", "*mvert"), F("MEdge", "*medge"), F("MPoly", "*mpoly"), F("MLoop", "*mloop"),
		F("MLoopUV", "*mloopuv"), F("MLoopCol", "*mloopcol"),
		F("CustomData", "vdata"), F("CustomData", "edata"), F("CustomData", "fdata"),
		F("CustomData", "pdata"), F("CustomData", "ldata"),
		F("int", "totvert"), F("int", "totedge"), F("int", "totface"), F("int", "totpoly"),
		F("int", "totloop"), F("short", "totcol"), F("char", "_pad[2]"),
		F("MDeformVert", "*dvert"), F("ListBase", "vertex_group_names"),
	)

	return b
}

// BlenderModern declares the Blender 4.5+ schema: generic attributes in an
// AttributeStorage, face offsets and the *_num counters.
func (b *Builder) BlenderModern() *Builder {
	b.declareCommon()
	b.Struct("Attribute",
		F("char", "*name"), F("int16_t", "data_type"), F("int8_t", "domain"), F("int8_t", "storage_type"),
		F("char", "_pad[4]"), F("void", "*data"),
	)
	b.Struct("AttributeStorage", F("Attribute", "*dna_attributes"), F("int", "dna_attributes_num"), F("char", "_pad[4]"), F("void", "*runtime"))
	b.Struct("AttributeArray", F("void", "*data"), F("void", "*sharing_info"), F("int64_t", "size"))
	b.Struct("AttributeSingle", F("void", "*data"), F("void", "*sharing_info"))
	b.Struct("Mesh",
		F("ID", "id"), F("Material", "**mat"), F("int", "*face_offset_indices"),
		F("CustomData", "vert_data"), F("CustomData", "edge_data"), F("CustomData", "face_data"),
		F("CustomData", "corner_data"),
		F("int", "verts_num"), F("int", "edges_num"), F("int", "faces_num"), F("int", "corners_num"),
		F("short", "totcol"), F("char", "_pad[6]"),
		F("AttributeStorage", "attribute_storage"), F("ListBase", "vertex_group_names"),
	)

	return b
}

// ID writes the name of an embedded ID at path (usually "id"). Blender prefixes ID names
// with the two-letter code, e.g. "MECube".
func (r *Record) ID(elem int, path, name string) *Record {
	return r.String(elem, path+".name", name)
}
