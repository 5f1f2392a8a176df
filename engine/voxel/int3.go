package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// SectionOrigin is the world position of the min corner of the section at grid coordinate i.
func (i Int3) SectionOrigin() Int3 {
	return i.Mul(SECTION_SIZE)
}

// SectionCenter is the world-space center of the section at grid coordinate i.
func (i Int3) SectionCenter() mgl32.Vec3 {
	half := float32(SECTION_SIZE) / 2
	return i.SectionOrigin().ToVec3().Add(mgl32.Vec3{half, half, half})
}

// ToSectionCoord returns the grid coordinate of the section containing the world block i.
func (i Int3) ToSectionCoord() Int3 {
	return Int3{FloorDiv(i.X, SECTION_SIZE), FloorDiv(i.Y, SECTION_SIZE), FloorDiv(i.Z, SECTION_SIZE)}
}

func (i Int3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", i.X, i.Y, i.Z)
}
