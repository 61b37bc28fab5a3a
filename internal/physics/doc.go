// Package physics provides the per-frame particle integrator.
//
// A [ParticleSystem] owns two parallel float32 buffers, positions and
// velocities, three components per particle. Each call to
// [ParticleSystem.Step] applies, particle by particle and in index order:
//
//   - gravity along -y to the velocity
//   - explicit integration of the position with the updated velocity
//   - clamping against the boundary box, reversing and damping the
//     velocity component of every axis that was crossed
//
// The box spans [-s/2, s/2] in x and z and [0, s] in y, where s is the
// square size. The floor behaves as ground and the ceiling as a lid.
//
// # Publishing
//
// After all particles are updated the system copies the positions into its
// published buffer, raises the needs-update flag and hands one
// [dynamo.Frame] to each subscribed sink. Render collaborators read
// [ParticleSystem.Positions] and call [ParticleSystem.MarkUploaded] once the
// data is on the GPU.
//
// # Tunneling
//
// Collision is resolved against the already-moved position. A particle whose
// displacement in one step exceeds the box is clamped to the far wall rather
// than swept.
package physics
