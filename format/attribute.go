package format

import (
	"fmt"

	"github.com/arloliu/blend/errs"
)

type (
	// DataType is the element type tag of a generic attribute.
	DataType int16

	// Domain is the geometry element an attribute is stored on.
	Domain int8

	// StorageKind tells whether an attribute holds one value per element or a single
	// value for the whole domain.
	StorageKind int8

	// CustomDataType is the layer type tag of the legacy layered storage.
	CustomDataType int32
)

const (
	DataTypeBool DataType = iota
	DataTypeInt8
	DataTypeInt16x2
	DataTypeInt32
	DataTypeInt32x2
	DataTypeFloat
	DataTypeFloat2
	DataTypeFloat3
	DataTypeFloat4x4
	DataTypeColorByte
	DataTypeColorFloat
	DataTypeQuaternion
	DataTypeString

	dataTypeCount
)

var dataTypeInfo = [dataTypeCount]struct {
	name string
	size int
}{
	DataTypeBool:       {"Bool", 1},
	DataTypeInt8:       {"Int8", 1},
	DataTypeInt16x2:    {"Int16_2D", 4},
	DataTypeInt32:      {"Int32", 4},
	DataTypeInt32x2:    {"Int32_2D", 8},
	DataTypeFloat:      {"Float", 4},
	DataTypeFloat2:     {"Float2", 8},
	DataTypeFloat3:     {"Float3", 12},
	DataTypeFloat4x4:   {"Float4x4", 64},
	DataTypeColorByte:  {"ColorByte", 4},
	DataTypeColorFloat: {"ColorFloat", 16},
	DataTypeQuaternion: {"Quaternion", 16},
	DataTypeString:     {"String", 256},
}

// ParseDataType converts an on-disk tag to a DataType.
func ParseDataType(tag int64) (DataType, error) {
	if tag < 0 || tag >= int64(dataTypeCount) {
		return 0, fmt.Errorf("%w: data type %d", errs.ErrUnknownTag, tag)
	}

	return DataType(tag), nil
}

func (d DataType) valid() bool { return d >= 0 && d < dataTypeCount }

// Size returns the element size in bytes, or 0 for an unknown type.
func (d DataType) Size() int {
	if !d.valid() {
		return 0
	}

	return dataTypeInfo[d].size
}

func (d DataType) String() string {
	if !d.valid() {
		return fmt.Sprintf("DataType(%d)", int16(d))
	}

	return dataTypeInfo[d].name
}

const (
	DomainPoint Domain = iota
	DomainEdge
	DomainFace
	DomainCorner
	DomainCurve
	DomainInstance
	DomainLayer

	domainCount
)

var domainNames = [domainCount]string{"Point", "Edge", "Face", "Corner", "Curve", "Instance", "Layer"}

// ParseDomain converts an on-disk tag to a Domain.
func ParseDomain(tag int64) (Domain, error) {
	if tag < 0 || tag >= int64(domainCount) {
		return 0, fmt.Errorf("%w: domain %d", errs.ErrUnknownTag, tag)
	}

	return Domain(tag), nil
}

func (d Domain) String() string {
	if d < 0 || d >= domainCount {
		return fmt.Sprintf("Domain(%d)", int8(d))
	}

	return domainNames[d]
}

const (
	StorageArray StorageKind = iota
	StorageSingle
)

// ParseStorageKind converts an on-disk tag to a StorageKind.
func ParseStorageKind(tag int64) (StorageKind, error) {
	switch tag {
	case int64(StorageArray):
		return StorageArray, nil
	case int64(StorageSingle):
		return StorageSingle, nil
	}

	return 0, fmt.Errorf("%w: storage kind %d", errs.ErrUnknownTag, tag)
}

func (s StorageKind) String() string {
	switch s {
	case StorageArray:
		return "Array"
	case StorageSingle:
		return "Single"
	default:
		return fmt.Sprintf("StorageKind(%d)", int8(s))
	}
}

// Legacy layer types that this reader interprets. The numbering follows the file
// format and has gaps.
const (
	CDMVert          CustomDataType = 0
	CDMDeformVert    CustomDataType = 2
	CDMEdge          CustomDataType = 3
	CDMFace          CustomDataType = 4
	CDMTFace         CustomDataType = 5
	CDMCol           CustomDataType = 6
	CDOrigIndex      CustomDataType = 7
	CDNormal         CustomDataType = 8
	CDPropFloat      CustomDataType = 10
	CDPropInt32      CustomDataType = 11
	CDPropString     CustomDataType = 12
	CDMLoopUV        CustomDataType = 16
	CDPropByteColor  CustomDataType = 17
	CDPropFloat4x4   CustomDataType = 20
	CDPropInt16x2    CustomDataType = 24
	CDMPoly          CustomDataType = 25
	CDMLoop          CustomDataType = 26
	CDShapeKey       CustomDataType = 28
	CDCustomLoopNorm CustomDataType = 41
	CDPropInt8       CustomDataType = 45
	CDPropInt32x2    CustomDataType = 46
	CDPropColor      CustomDataType = 47
	CDPropFloat3     CustomDataType = 48
	CDPropFloat2     CustomDataType = 49
	CDPropBool       CustomDataType = 50
	CDPropQuaternion CustomDataType = 52
)

var customDataTypeNames = map[CustomDataType]string{
	CDMVert:          "MVert",
	CDMDeformVert:    "MDeformVert",
	CDMEdge:          "MEdge",
	CDMFace:          "MFace",
	CDMTFace:         "MTFace",
	CDMCol:           "MCol",
	CDOrigIndex:      "OrigIndex",
	CDNormal:         "Normal",
	CDPropFloat:      "PropFloat",
	CDPropInt32:      "PropInt32",
	CDPropString:     "PropString",
	CDMLoopUV:        "MLoopUV",
	CDPropByteColor:  "PropByteColor",
	CDPropFloat4x4:   "PropFloat4x4",
	CDPropInt16x2:    "PropInt16_2D",
	CDMPoly:          "MPoly",
	CDMLoop:          "MLoop",
	CDShapeKey:       "ShapeKey",
	CDCustomLoopNorm: "CustomLoopNormal",
	CDPropInt8:       "PropInt8",
	CDPropInt32x2:    "PropInt32_2D",
	CDPropColor:      "PropColor",
	CDPropFloat3:     "PropFloat3",
	CDPropFloat2:     "PropFloat2",
	CDPropBool:       "PropBool",
	CDPropQuaternion: "PropQuaternion",
}

func (c CustomDataType) String() string {
	if name, ok := customDataTypeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("CustomDataType(%d)", int32(c))
}

// DataType maps a generic property layer type to the attribute data type it stores.
// Layers with a dedicated struct (MVert, MLoopUV, ...) report false.
func (c CustomDataType) DataType() (DataType, bool) {
	switch c { //nolint: exhaustive
	case CDPropBool:
		return DataTypeBool, true
	case CDPropInt8:
		return DataTypeInt8, true
	case CDPropInt16x2:
		return DataTypeInt16x2, true
	case CDPropInt32:
		return DataTypeInt32, true
	case CDPropInt32x2:
		return DataTypeInt32x2, true
	case CDPropFloat:
		return DataTypeFloat, true
	case CDPropFloat2:
		return DataTypeFloat2, true
	case CDPropFloat3:
		return DataTypeFloat3, true
	case CDPropFloat4x4:
		return DataTypeFloat4x4, true
	case CDPropByteColor:
		return DataTypeColorByte, true
	case CDPropColor:
		return DataTypeColorFloat, true
	case CDPropQuaternion:
		return DataTypeQuaternion, true
	case CDPropString:
		return DataTypeString, true
	default:
		return 0, false
	}
}
