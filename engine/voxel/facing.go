package voxel

// Facing is one of the six axis aligned faces of a section. The ordinal order
// is fixed and indexes the offset table and the reachability bits.
type Facing int32

const (
	NegZ Facing = iota
	PosZ
	NegX
	PosX
	NegY
	PosY
)

const FacingCount = 6

var AllFacings = [FacingCount]Facing{NegZ, PosZ, NegX, PosX, NegY, PosY}

var facingOffsets = [FacingCount]Int3{
	{Z: -1},
	{Z: 1},
	{X: -1},
	{X: 1},
	{Y: -1},
	{Y: 1},
}

var facingNames = [FacingCount]string{"-z", "+z", "-x", "+x", "-y", "+y"}

func (f Facing) Ordinal() int {
	return int(f)
}

func (f Facing) IsValid() bool {
	return f >= NegZ && f <= PosY
}

func (f Facing) Offset() Int3 {
	return facingOffsets[f]
}

// Opposite flips the sign of the facing: NegX <-> PosX and so on.
func (f Facing) Opposite() Facing {
	return f ^ 1
}

func (f Facing) String() string {
	if !f.IsValid() {
		return "invalid"
	}
	return facingNames[f]
}
