// Package archive names and packages captured frames into ZIP archives.
//
// Naming is deterministic and derived from the source file name and the
// 1-based frame ordinal:
//
//	anim.json, frame 1  → anim-frame-1.svg
//	anim.json (archive) → anim-frames.zip
//
// The archive name always follows the first file of an export, even when
// several files are packaged together.
//
// Entries are written with [github.com/klauspost/compress/zip], a drop-in
// replacement for archive/zip with faster deflate.
package archive
