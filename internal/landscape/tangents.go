package landscape

import (
	lmath "github.com/Faultbox/runtime-landscape/pkg/math"
)

// computeTangents returns per-vertex normals and tangents accumulated from
// the triangles around each vertex. Face contributions are area weighted.
// Vertices that belong to no triangle get a flat-ground frame.
func computeTangents(vertices []lmath.Vec3, triangles []uint32, uv []lmath.Vec2) ([]lmath.Vec3, []lmath.Vec3) {
	normals := make([]lmath.Vec3, len(vertices))
	tangents := make([]lmath.Vec3, len(vertices))

	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i], triangles[i+1], triangles[i+2]
		p0, p1, p2 := vertices[a], vertices[b], vertices[c]
		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)

		// Our winding is clockwise seen from above, so e2 x e1 points up.
		face := e2.Cross(e1)

		var tan lmath.Vec3
		d1 := uv[b].Sub(uv[a])
		d2 := uv[c].Sub(uv[a])
		if det := d1.X*d2.Y - d2.X*d1.Y; det != 0 {
			r := 1 / det
			tan = e1.Scale(d2.Y * r).Sub(e2.Scale(d1.Y * r))
		}

		for _, idx := range [3]uint32{a, b, c} {
			normals[idx] = normals[idx].Add(face)
			tangents[idx] = tangents[idx].Add(tan)
		}
	}

	for i := range normals {
		n := normals[i].Normalize()
		if n == (lmath.Vec3{}) {
			n = lmath.Up
		}
		normals[i] = n

		// Gram-Schmidt against the normal.
		t := tangents[i].Sub(n.Scale(n.Dot(tangents[i]))).Normalize()
		if t == (lmath.Vec3{}) {
			t = lmath.Vec3{X: 1}
		}
		tangents[i] = t
	}
	return normals, tangents
}
