package processing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/medicoin/imaging-client/internal/serviceerr"
)

type Prediction string

const (
	PredictionMalignant Prediction = "Malignant"
	PredictionBenign    Prediction = "Benign"
	PredictionUnknown   Prediction = "Unknown"
)

// Classification is the model's verdict for one image.
type Classification struct {
	Prediction  Prediction `json:"prediction"`
	Probability float64    `json:"probability"`
}

// ClassificationResult is the JSON body returned for a classification task.
// The URL fields are server-relative paths, resolved against the processing
// service origin for display.
type ClassificationResult struct {
	Classification      Classification `json:"classification"`
	SegmentationMaskURL string         `json:"segmentation_mask_url,omitempty"`
	AnnotatedImageURL   string         `json:"annotated_image_url,omitempty"`
}

// Result is the outcome of one submission, discriminated by the task kind
// captured at submission time. Exactly one of Image and Classification is
// populated.
type Result struct {
	Task           TaskKind
	Image          []byte
	Classification *ClassificationResult
}

// DecodeClassification reads and validates a classification response body.
// Any shape mismatch is a malformed-response error, kept distinct from
// network failures.
func DecodeClassification(r io.Reader) (ClassificationResult, error) {
	var result ClassificationResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return ClassificationResult{}, errors.Join(serviceerr.ErrMalformedResponse, err)
	}

	switch result.Classification.Prediction {
	case PredictionMalignant, PredictionBenign, PredictionUnknown:
	case "":
		return ClassificationResult{}, errors.Join(serviceerr.ErrMalformedResponse, errors.New("missing classification.prediction"))
	default:
		return ClassificationResult{}, errors.Join(serviceerr.ErrMalformedResponse, fmt.Errorf("unexpected prediction %q", result.Classification.Prediction))
	}

	if result.Classification.Probability < 0 || result.Classification.Probability > 100 {
		return ClassificationResult{}, errors.Join(serviceerr.ErrMalformedResponse, fmt.Errorf("probability %v out of range", result.Classification.Probability))
	}

	return result, nil
}

// DecodeSegmentation reads a segmentation response body, which must be a
// binary image payload.
func DecodeSegmentation(contentType string, r io.Reader) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, errors.Join(serviceerr.ErrMalformedResponse, fmt.Errorf("expected an image payload, got content type %q", contentType))
	}

	image, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(serviceerr.ErrMalformedResponse, err)
	}
	if len(image) == 0 {
		return nil, errors.Join(serviceerr.ErrMalformedResponse, errors.New("empty image payload"))
	}

	return image, nil
}
