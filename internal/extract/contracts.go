package extract

import "context"

// TextExtractor is the text-extraction capability: an image file in, the raw
// UTF-8 text the provider saw in it out. Empty text with a nil error means
// the provider found nothing; classifying that is the caller's business.
type TextExtractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Rasterizer is the render-first-page capability: a PDF in, the path of a
// PNG of its first page out. The returned cleanup releases the rendered
// artifacts and is safe to call exactly once.
type Rasterizer interface {
	RenderFirstPage(ctx context.Context, pdfPath string) (imagePath string, cleanup func(), err error)
}
