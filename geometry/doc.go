// Package geometry holds the payload types that travel through the result
// shim: point clouds and triangle meshes.
//
// They are thin containers. Compression, deduplication and any other
// processing belong to the wrapped library; this package only stores
// attribute values and faces and addresses them with typed indices from
// package index, so that point, face, corner and attribute-value numbers can
// never be confused.
package geometry
