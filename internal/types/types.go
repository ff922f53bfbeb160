// README: Common identifier and coordinate value types shared by modules.
package types

// ID is an opaque entity identifier (UUID string in practice).
type ID string

func (id ID) String() string { return string(id) }

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
