package vision

import (
	"context"
	"math"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	gax "github.com/googleapis/gax-go/v2"

	"github.com/examforge-project/examforge/ocr"
	"github.com/examforge-project/examforge/pkg/utils"
)

// Annotator is the subset of vision.ImageAnnotatorClient used here.
// Ref: https://pkg.go.dev/cloud.google.com/go/vision/apiv1
// The indirection exists so unit tests can stub the Google client.
type Annotator interface {
	DetectDocumentText(ctx context.Context, image *visionpb.Image, imageContext *visionpb.ImageContext, opts ...gax.CallOption) (*visionpb.TextAnnotation, error)
}

// Client adapts Cloud Vision document text detection to the ocr.Client
// contract. Vision reports word-level boxes; each word becomes one fragment.
type Client struct {
	annotator Annotator
}

func New(annotator Annotator) *Client {
	return &Client{annotator: annotator}
}

func (c *Client) DetectText(ctx context.Context, imageBytes []byte) ([]ocr.Fragment, error) {
	annotation, err := c.annotator.DetectDocumentText(ctx, &visionpb.Image{Content: imageBytes}, nil)
	if err != nil {
		return nil, err
	}
	return toFragments(annotation), nil
}

func toFragments(annotation *visionpb.TextAnnotation) []ocr.Fragment {
	blocks := utils.FlatMap(annotation.GetPages(), func(page *visionpb.Page) []*visionpb.Block {
		return page.GetBlocks()
	})
	paragraphs := utils.FlatMap(blocks, func(block *visionpb.Block) []*visionpb.Paragraph {
		return block.GetParagraphs()
	})
	words := utils.FlatMap(paragraphs, func(paragraph *visionpb.Paragraph) []*visionpb.Word {
		return paragraph.GetWords()
	})

	return utils.Map(words, func(word *visionpb.Word) ocr.Fragment {
		box := utils.Reduce(word.GetBoundingBox().GetVertices(), func(box bounds, vertex *visionpb.Vertex) bounds {
			return bounds{
				top:    min(box.top, vertex.GetY()),
				left:   min(box.left, vertex.GetX()),
				bottom: max(box.bottom, vertex.GetY()),
				right:  max(box.right, vertex.GetX()),
			}
		}, bounds{top: math.MaxInt32, left: math.MaxInt32})

		text := utils.Reduce(word.GetSymbols(), func(text string, symbol *visionpb.Symbol) string {
			return text + symbol.GetText()
		}, "")

		return ocr.Fragment{
			Text:   text,
			Top:    int(box.top),
			Left:   int(box.left),
			Width:  int(box.right - box.left),
			Height: int(box.bottom - box.top),
		}
	})
}

type bounds struct {
	top    int32
	left   int32
	bottom int32
	right  int32
}
