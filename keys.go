package data3d

// Top-level keys.
const (
	KeyMeta   = "meta"
	KeyData3d = "data3d"
)

// Meta keys.
const (
	KeyVersion   = "version"
	KeyExporter  = "exporter"
	KeyTimestamp = "timestamp"
)

// Node keys.
const (
	KeyNodeID       = "nodeId"
	KeyPosition     = "position"
	KeyRotDeg       = "rotDeg"
	KeyRotRad       = "rotRad"
	KeyMeshes       = "meshes"
	KeyMeshKeys     = "meshKeys"
	KeyMaterials    = "materials"
	KeyMaterialKeys = "materialKeys"
	KeyChildren     = "children"
)

// Mesh keys. Meshes also use KeyPosition and the rotation keys.
const (
	KeyMaterial    = "material"
	KeyPositions   = "positions"
	KeyNormals     = "normals"
	KeyUVs         = "uvs"
	KeyUVsLightmap = "uvsLightmap"
)

// Buffer-only mesh keys, pointing into the payload in float32 elements.
const (
	KeyPositionsOffset   = KeyPositions + suffixOffset
	KeyPositionsLength   = KeyPositions + suffixLength
	KeyNormalsOffset     = KeyNormals + suffixOffset
	KeyNormalsLength     = KeyNormals + suffixLength
	KeyUVsOffset         = KeyUVs + suffixOffset
	KeyUVsLength         = KeyUVs + suffixLength
	KeyUVsLightmapOffset = KeyUVsLightmap + suffixOffset
	KeyUVsLightmapLength = KeyUVsLightmap + suffixLength
)

const (
	suffixOffset = "Offset"
	suffixLength = "Length"
)

// OffsetKey returns the payload offset key of a mesh array key.
func OffsetKey(key string) string { return key + suffixOffset }

// LengthKey returns the payload length key of a mesh array key.
func LengthKey(key string) string { return key + suffixLength }

// MeshArrayKeys lists the mesh array keys in payload order.
var MeshArrayKeys = [...]string{KeyPositions, KeyNormals, KeyUVs, KeyUVsLightmap}

// Material keys.
const (
	KeyColorDiffuse           = "colorDiffuse"
	KeyColorSpecular          = "colorSpecular"
	KeySpecularCoef           = "specularCoef"
	KeyLightEmissionCoef      = "lightEmissionCoef"
	KeyOpacity                = "opacity"
	KeySize                   = "size"
	KeyMapDiffuse             = "mapDiffuse"
	KeyMapSpecular            = "mapSpecular"
	KeyMapNormal              = "mapNormal"
	KeyMapAlpha               = "mapAlpha"
	KeyMapLight               = "mapLight"
	KeyCastRealTimeShadows    = "castRealTimeShadows"
	KeyReceiveRealTimeShadows = "receiveRealTimeShadows"
	KeyAddLightmap            = "addLightmap"
	KeyUseInBaking            = "useInBaking"
	KeyHideAfterBaking        = "hideAfterBaking"
)

// Texture map variants. A map key with no suffix refers to the hi-res
// texture.
const (
	SuffixHiRes   = ""
	SuffixSource  = "Source"
	SuffixPreview = "Preview"
)

// MapKeys lists the texture map slots.
var MapKeys = [...]string{KeyMapDiffuse, KeyMapSpecular, KeyMapNormal, KeyMapAlpha, KeyMapLight}

// MapSuffixes lists the texture map variants.
var MapSuffixes = [...]string{SuffixHiRes, SuffixSource, SuffixPreview}
