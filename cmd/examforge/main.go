package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	gcs "cloud.google.com/go/storage"
	gvision "cloud.google.com/go/vision/apiv1"
	"github.com/ridge/must/v2"
	"google.golang.org/api/option"

	"github.com/examforge-project/examforge/font"
	"github.com/examforge-project/examforge/ocr"
	"github.com/examforge-project/examforge/ocr/baidu"
	ocrvision "github.com/examforge-project/examforge/ocr/vision"
	"github.com/examforge-project/examforge/pkg/env"
	"github.com/examforge-project/examforge/render"
	"github.com/examforge-project/examforge/server"
	"github.com/examforge-project/examforge/storage"
)

func main() {
	env.Load()
	ctx := context.Background()

	ocrClient := newOCRClient(ctx)

	fonts := font.New(env.StringVariable("EXAM_FONT_PATH", ""))
	renderer := render.New(render.DefaultConfig(), fonts)

	// Generated documents are archived to GCS when a bucket is configured.
	var archive storage.Client
	archiveBucket := env.StringVariable("EXAM_ARCHIVE_BUCKET", "")
	if archiveBucket != "" {
		archive = storage.New(must.OK1(gcs.NewClient(ctx)))
	}

	mux := server.New(ocrClient, renderer, archive, archiveBucket).Routes()
	addr := fmt.Sprintf(":%d", env.IntVariable("EXAM_PORT", 8000))
	log.Printf("examforge listening on %s", addr)
	must.OK(http.ListenAndServe(addr, mux))
}

func newOCRClient(ctx context.Context) ocr.Client {
	switch provider := env.StringVariable("EXAM_OCR_PROVIDER", "baidu"); provider {
	case "baidu":
		return baidu.New(
			env.RequiredStringVariable("BAIDU_OCR_API_KEY"),
			env.RequiredStringVariable("BAIDU_OCR_SECRET_KEY"),
			nil,
		)
	case "vision":
		var opts []option.ClientOption
		if credentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"); credentials != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
		}
		return ocrvision.New(must.OK1(gvision.NewImageAnnotatorClient(ctx, opts...)))
	default:
		panic(fmt.Sprintf("unknown OCR provider: %s", provider))
	}
}
