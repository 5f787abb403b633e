package entities

// MetadataKey is the compound key of one metadata entry. It has value
// equality and is used as a map key by the stores.
type MetadataKey struct {
	SetID string
	Key   string
}

type SetMetadata struct {
	Key   MetadataKey
	Value string
}
