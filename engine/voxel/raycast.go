package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type RayHit struct {
	Hit      bool
	Distance float64
	Position mgl32.Vec3
	Block    Int3
	Previous Int3
	// Face is the face of Block the ray entered through, invalid when the
	// ray starts inside a solid block.
	Face Facing
}

// Raycast walks the blocks along the segment from rayStart to rayEnd and stops
// at the first block isSolid accepts. Consecutive blocks always share a face.
func Raycast(rayStart, rayEnd mgl32.Vec3, isSolid func(x, y, z int32) bool) RayHit {
	// adapted from: https://github.com/fenomas/fast-voxel-raycast/blob/master/index.js
	t := 0.0
	ix := int32(math.Floor(float64(rayStart.X())))
	iy := int32(math.Floor(float64(rayStart.Y())))
	iz := int32(math.Floor(float64(rayStart.Z())))

	ray := rayEnd.Sub(rayStart)
	maxRayLength := float64(ray.Len())
	if maxRayLength == 0 {
		if isSolid(ix, iy, iz) {
			block := Int3{X: ix, Y: iy, Z: iz}
			return RayHit{Hit: true, Position: rayStart, Block: block, Previous: block, Face: -1}
		}
		return RayHit{}
	}
	rayDir := ray.Normalize()

	stepx := int32(-1)
	if rayDir.X() > 0 {
		stepx = 1
	}
	stepy := int32(-1)
	if rayDir.Y() > 0 {
		stepy = 1
	}
	stepz := int32(-1)
	if rayDir.Z() > 0 {
		stepz = 1
	}

	txDelta := math.Abs(1.0 / float64(rayDir.X()))
	tyDelta := math.Abs(1.0 / float64(rayDir.Y()))
	tzDelta := math.Abs(1.0 / float64(rayDir.Z()))

	xdist := float64(rayStart.X()) - float64(ix)
	if stepx > 0 {
		xdist = float64(ix+1) - float64(rayStart.X())
	}
	ydist := float64(rayStart.Y()) - float64(iy)
	if stepy > 0 {
		ydist = float64(iy+1) - float64(rayStart.Y())
	}
	zdist := float64(rayStart.Z()) - float64(iz)
	if stepz > 0 {
		zdist = float64(iz+1) - float64(rayStart.Z())
	}

	txMax := math.Inf(1)
	if !math.IsInf(txDelta, 1) {
		txMax = txDelta * xdist
	}
	tyMax := math.Inf(1)
	if !math.IsInf(tyDelta, 1) {
		tyMax = tyDelta * ydist
	}
	tzMax := math.Inf(1)
	if !math.IsInf(tzDelta, 1) {
		tzMax = tzDelta * zdist
	}

	// the face we entered the current block through
	entered := Facing(-1)

	for t <= maxRayLength {
		if isSolid(ix, iy, iz) {
			block := Int3{X: ix, Y: iy, Z: iz}
			previous := block
			if entered.IsValid() {
				previous = block.Add(entered.Offset())
			}
			return RayHit{
				Hit:      true,
				Distance: t,
				Position: rayStart.Add(rayDir.Mul(float32(t))),
				Block:    block,
				Previous: previous,
				Face:     entered,
			}
		}

		if txMax < tyMax && txMax < tzMax {
			ix += stepx
			t = txMax
			txMax += txDelta
			entered = stepFace(stepx, NegX, PosX)
		} else if tyMax < tzMax {
			iy += stepy
			t = tyMax
			tyMax += tyDelta
			entered = stepFace(stepy, NegY, PosY)
		} else {
			iz += stepz
			t = tzMax
			tzMax += tzDelta
			entered = stepFace(stepz, NegZ, PosZ)
		}
	}

	return RayHit{}
}

// stepFace is the face a block is entered through when stepping in direction step.
func stepFace(step int32, negative, positive Facing) Facing {
	if step > 0 {
		return negative
	}
	return positive
}

// FibonacciDirections spreads n unit vectors evenly over the sphere.
func FibonacciDirections(n int) []mgl32.Vec3 {
	directions := make([]mgl32.Vec3, 0, n)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)+0.5)*2/float64(n)
		radius := math.Sqrt(1 - y*y)
		theta := goldenAngle * float64(i)
		directions = append(directions, mgl32.Vec3{
			float32(math.Cos(theta) * radius),
			float32(y),
			float32(math.Sin(theta) * radius),
		})
	}
	return directions
}
