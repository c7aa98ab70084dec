package converter

import (
	"errors"
	"fmt"

	"github.com/drummonds/imgconv/formats"
)

var (
	// ErrUnsupportedTargetFormat is returned when the chosen target has no encoder
	ErrUnsupportedTargetFormat = errors.New("unsupported target format")
	// ErrDecodeFailure is returned when the source cannot be decoded
	ErrDecodeFailure = errors.New("decode failure")
	// ErrEncodeFailure is returned when the surface cannot be serialized
	ErrEncodeFailure = errors.New("encode failure")
	// ErrUnsupportedSource is returned when a file is not on the input allow-list
	ErrUnsupportedSource = errors.New("unsupported source format")
	// ErrNoSource is returned when a conversion is requested before a file was selected
	ErrNoSource = errors.New("no source image selected")
	// ErrStaleSession is returned when a newer source replaced the one being converted
	ErrStaleSession = errors.New("source changed during conversion")
)

// Stage names a pipeline step
type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageDecode    Stage = "decode"
	StageTransform Stage = "transform"
	StageEncode    Stage = "encode"
	StageDeliver   Stage = "deliver"
)

// ConversionError ties a failure to the stage that produced it
type ConversionError struct {
	Stage  Stage
	Kind   error
	Target formats.Format
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Is matches the sentinel kind so errors.Is(err, ErrDecodeFailure) works
func (e *ConversionError) Is(target error) bool {
	return e.Kind == target
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newError(stage Stage, kind error, err error) error {
	return &ConversionError{Stage: stage, Kind: kind, Err: err}
}

// UnsupportedTarget builds the error reported when target cannot be encoded
func UnsupportedTarget(target formats.Format) error {
	return &ConversionError{Stage: StageTransform, Kind: ErrUnsupportedTargetFormat, Target: target}
}

// KindName returns a stable identifier for the error's kind, used in API responses
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedTargetFormat):
		return "UnsupportedTargetFormat"
	case errors.Is(err, ErrUnsupportedSource):
		return "UnsupportedSource"
	case errors.Is(err, ErrDecodeFailure):
		return "DecodeFailure"
	case errors.Is(err, ErrEncodeFailure):
		return "EncodeFailure"
	case errors.Is(err, ErrNoSource):
		return "NoSource"
	case errors.Is(err, ErrStaleSession):
		return "StaleSession"
	}
	return "Internal"
}

// UserMessage converts a pipeline error into the text shown to the user
func UserMessage(err error) string {
	var convErr *ConversionError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedTargetFormat):
		target := "This format"
		if errors.As(err, &convErr) && convErr.Target != "" {
			target = convErr.Target.String()
		}
		return fmt.Sprintf("Sorry, %s conversion is not supported. Currently supported output formats are: %s.",
			target, formats.SupportedTargetsText())
	case errors.Is(err, ErrUnsupportedSource):
		return "This file type is not accepted. Input formats: " + formats.SourceFormatsText() + "."
	case errors.Is(err, ErrDecodeFailure):
		return "Error loading image. Please try again."
	case errors.Is(err, ErrEncodeFailure):
		return "Error during conversion. Please try another format."
	case errors.Is(err, ErrNoSource):
		return "Drop an image first."
	case errors.Is(err, ErrStaleSession):
		return "A new image was selected before the conversion finished. Please convert again."
	}
	return "Unexpected error: " + err.Error()
}
