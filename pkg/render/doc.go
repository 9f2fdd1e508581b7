// Package render captures Lottie animation frames as SVG documents.
//
// # Overview
//
// Rendering itself is delegated to a [Renderer], an external capability that
// turns a Lottie document into SVG snapshots. This package defines that
// capability and the one piece of logic built on top of it, [Capture]:
//
//  1. Load the document into a fresh [Player]
//  2. Read the total frame count N
//  3. For each index 0..N-1, seek and snapshot, in order
//  4. Seek back to 0 and resume playback
//
// Seek and snapshot on one player are strictly sequential: a snapshot always
// reflects the seek immediately before it. Different files use different
// players, so they never interfere.
//
// # Implementations
//
// The [browser] subpackage drives lottie-web inside headless Chromium.
// [rendertest] provides an in-memory fake for tests.
//
// # Thumbnails
//
// [ToPNG] rasterizes a captured SVG frame for preview purposes.
//
// [browser]: github.com/matzehuels/lottieframes/pkg/render/browser
// [rendertest]: github.com/matzehuels/lottieframes/pkg/render/rendertest
package render
