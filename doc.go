/*Package fmm3d contains the hierarchical core of a three-dimensional Fast
Multipole Method: an octree spatial index over point sources (package
octree), a Morton space-filling-curve coder used to build it (package
morton), precomputed spherical-harmonic coefficient tables (package coeffs),
harmonic evaluators built on those tables (package harmonic), and the
translation operators - P2M, M2M, M2L, M2P, L2L, L2P, P2P - specialized for
the Laplace potential (package laplace) and reused by vector composition for
the Stokes kernel (package stokes).

This package itself holds only the types shared by all of the above: Point,
BoundingBox, and KernelConfig. Deciding which box pairs should be evaluated
by M2L, M2P, or direct P2P is the job of a dual-tree traversal that lives
outside this module; fmm3d exposes only the per-pair operator contracts that
such a traversal consumes.
*/
package fmm3d
