package vision

import (
	"context"
	"fmt"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	gax "github.com/googleapis/gax-go/v2"
)

type stubAnnotator struct {
	annotation *visionpb.TextAnnotation
	err        error
	gotContent []byte
}

func (s *stubAnnotator) DetectDocumentText(ctx context.Context, image *visionpb.Image, imageContext *visionpb.ImageContext, opts ...gax.CallOption) (*visionpb.TextAnnotation, error) {
	s.gotContent = image.GetContent()
	return s.annotation, s.err
}

func word(text string, vertices ...[2]int32) *visionpb.Word {
	w := &visionpb.Word{BoundingBox: &visionpb.BoundingPoly{}}
	for _, v := range vertices {
		w.BoundingBox.Vertices = append(w.BoundingBox.Vertices, &visionpb.Vertex{X: v[0], Y: v[1]})
	}
	for _, r := range text {
		w.Symbols = append(w.Symbols, &visionpb.Symbol{Text: string(r)})
	}
	return w
}

func annotationOf(words ...*visionpb.Word) *visionpb.TextAnnotation {
	return &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{{Words: words}},
			}},
		}},
	}
}

func TestDetectText(t *testing.T) {
	stub := &stubAnnotator{annotation: annotationOf(
		word("题干", [2]int32{80, 10}, [2]int32{480, 10}, [2]int32{480, 60}, [2]int32{80, 60}),
		word("A", [2]int32{80, 100}, [2]int32{120, 100}, [2]int32{120, 150}, [2]int32{80, 150}),
	)}

	fragments, err := New(stub).DetectText(context.Background(), []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if string(stub.gotContent) != "payload" {
		t.Errorf("submitted content = %q", stub.gotContent)
	}
	if len(fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(fragments))
	}

	first := fragments[0]
	if first.Text != "题干" {
		t.Errorf("text = %q, want %q", first.Text, "题干")
	}
	if first.Top != 10 || first.Left != 80 || first.Width != 400 || first.Height != 50 {
		t.Errorf("box = %+v, want the vertex envelope", first)
	}

	if fragments[1].Text != "A" {
		t.Errorf("second text = %q, want %q", fragments[1].Text, "A")
	}
}

func TestDetectTextPropagatesError(t *testing.T) {
	stub := &stubAnnotator{err: fmt.Errorf("quota exceeded")}
	if _, err := New(stub).DetectText(context.Background(), []byte("x")); err == nil {
		t.Error("annotator error was swallowed")
	}
}

func TestDetectTextEmptyAnnotation(t *testing.T) {
	stub := &stubAnnotator{annotation: &visionpb.TextAnnotation{}}
	fragments, err := New(stub).DetectText(context.Background(), []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fragments) != 0 {
		t.Errorf("got %d fragments from an empty annotation", len(fragments))
	}
}
