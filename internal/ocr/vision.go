package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// documentTextDetection reads dense, mixed-script document text; certificates
// carry Japanese and Latin runs on the same page, hence both language hints.
const documentTextDetection = "DOCUMENT_TEXT_DETECTION"

var visionLanguageHints = []string{"ja", "en"}

// VisionConfig configures the cloud text-detection client. Credential
// material is resolved at startup from configuration or the application
// default credentials, never compiled into the binary.
type VisionConfig struct {
	CredentialsFile string // service-account JSON file path
	CredentialsJSON string // inline service-account JSON, wins over the file
	Endpoint        string // override for tests/emulators; implies no auth when no credentials are set
	Timeout         time.Duration
}

// TextResult is the outcome of one annotate call.
type TextResult struct {
	Text     string
	Locale   string
	Duration time.Duration
}

// VisionClient wraps the images:annotate endpoint of the Cloud Vision API.
type VisionClient struct {
	svc     *vision.Service
	timeout time.Duration
	logger  *slog.Logger
}

func NewVisionClient(ctx context.Context, cfg VisionConfig, logger *slog.Logger) (*VisionClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.Endpoint != "":
		// an endpoint override without credentials is a test server or emulator
		opts = append(opts, option.WithoutAuthentication())
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionClient{svc: svc, timeout: cfg.Timeout, logger: logger}, nil
}

// Annotate sends the image at imagePath through DOCUMENT_TEXT_DETECTION and
// returns the full text annotation. An image in which the API finds no text
// yields an empty Text with a nil error; the caller decides whether that is a
// failure.
func (c *VisionClient) Annotate(ctx context.Context, imagePath string) (TextResult, error) {
	start := time.Now()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return TextResult{}, fmt.Errorf("read image: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:        &vision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features:     []*vision.Feature{{Type: documentTextDetection, MaxResults: 1}},
			ImageContext: &vision.ImageContext{LanguageHints: visionLanguageHints},
		}},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return TextResult{}, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return TextResult{Duration: time.Since(start)}, nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return TextResult{}, fmt.Errorf("vision api: %s (code %d)", r.Error.Message, r.Error.Code)
	}

	res := TextResult{Duration: time.Since(start)}
	if fta := r.FullTextAnnotation; fta != nil {
		res.Text = fta.Text
		if len(fta.Pages) > 0 && fta.Pages[0].Property != nil && len(fta.Pages[0].Property.DetectedLanguages) > 0 {
			res.Locale = fta.Pages[0].Property.DetectedLanguages[0].LanguageCode
		}
	}

	c.logger.Debug("vision.annotate.ok",
		"image", filepath.Base(imagePath),
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
