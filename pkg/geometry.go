package evt

import (
	"cmp"
	"fmt"
)

const (
	DefaultFirstPmtID   = 1
	DefaultOMsPerString = 18
	DefaultPmtsPerOM    = 31
)

// OMKey identifies one PMT: StringID and OMID are 1-based, PmtID is 0-based
// inside its optical module.
type OMKey struct {
	StringID int
	OMID     int
	PmtID    int
}

func (k OMKey) String() string {
	return fmt.Sprintf("OMKey(%d,%d,%d)", k.StringID, k.OMID, k.PmtID)
}

// Module returns the key with the pmt cleared, addressing the whole module.
func (k OMKey) Module() OMKey {
	return OMKey{StringID: k.StringID, OMID: k.OMID, PmtID: 0}
}

// Compare orders keys by string, then module, then pmt.
func (k OMKey) Compare(other OMKey) int {
	if c := cmp.Compare(k.StringID, other.StringID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.OMID, other.OMID); c != 0 {
		return c
	}
	return cmp.Compare(k.PmtID, other.PmtID)
}

// Geometry holds the constants of the string/module/pmt detector layout.
type Geometry struct {
	FirstIndex       int `db:"FirstPmtID" json:"first_pmt_id"`
	ModulesPerString int `db:"OMsPerString" json:"oms_per_string"`
	PmtsPerModule    int `db:"PmtsPerOM" json:"pmts_per_om"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		FirstIndex:       DefaultFirstPmtID,
		ModulesPerString: DefaultOMsPerString,
		PmtsPerModule:    DefaultPmtsPerOM,
	}
}

func (g Geometry) Validate() error {
	if g.ModulesPerString <= 0 {
		return fmt.Errorf("invalid number of modules per string: %d", g.ModulesPerString)
	}
	if g.PmtsPerModule <= 0 {
		return fmt.Errorf("invalid number of pmts per module: %d", g.PmtsPerModule)
	}
	return nil
}

// OMKey converts a flat pmt index into its detector coordinate.
// Modules are numbered from the top of the string down, so the first pmts of
// a string belong to the highest module.
func (g Geometry) OMKey(flatIndex int) OMKey {
	pmtsPerString := g.ModulesPerString * g.PmtsPerModule
	offset := flatIndex - g.FirstIndex
	return OMKey{
		StringID: floorDiv(offset, pmtsPerString) + 1,
		OMID:     g.ModulesPerString - floorDiv(floorMod(offset, pmtsPerString), g.PmtsPerModule),
		PmtID:    floorMod(offset, g.PmtsPerModule),
	}
}

// PmtIDToOMKey maps a flat pmt index with the default geometry.
func PmtIDToOMKey(flatIndex int) OMKey {
	return DefaultGeometry().OMKey(flatIndex)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
