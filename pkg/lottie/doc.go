// Package lottie reads the header of Lottie animation documents.
//
// A Lottie document is a JSON object describing an animation: frame rate,
// in and out points, canvas size, layers and assets. This package does not
// interpret layers or assets; rendering is delegated to a [render.Renderer].
// It only validates that the content is a JSON object and exposes the
// timing fields needed to reason about frames.
//
// # Usage
//
//	doc, err := lottie.Parse(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.TotalFrames(), doc.Duration())
//
// The original bytes are kept verbatim and handed to the renderer through
// [Document.Raw], so unknown fields survive untouched.
//
// [render.Renderer]: github.com/matzehuels/lottieframes/pkg/render.Renderer
package lottie
