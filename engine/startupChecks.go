package engine

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/drummonds/imgconv/converter"
	"github.com/drummonds/imgconv/formats"
)

// StartupChecks performs all the checks to make sure everything works
func (serverHandler *ServerHandler) StartupChecks() error {
	if err := encoderChecks(); err != nil {
		return err
	}
	uploadLimitChecks(serverHandler.ServerConfig.MaxUploadBytes)
	return nil
}

// encoderChecks encodes a one pixel image to every target so a broken encoder
// shows up at startup instead of on the first user conversion
func encoderChecks() error {
	probe := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	probe.Set(0, 0, color.NRGBA{R: 255, A: 255})

	for _, target := range formats.EncodeTargets {
		data, err := converter.Encode(context.Background(), probe, target)
		if err != nil {
			Logger.Error("Encoder self test failed", "format", target, "error", err)
			return fmt.Errorf("encoder for %s is not working: %w", target, err)
		}
		Logger.Debug("Encoder self test passed", "format", target, "bytes", len(data))
	}
	Logger.Info("Encoders validated", "targets", formats.SupportedTargetsText())
	return nil
}

func uploadLimitChecks(maxUploadBytes int64) {
	if maxUploadBytes <= 0 {
		Logger.Warn("Upload limit not configured, uploads are unlimited")
		return
	}
	Logger.Info("Upload limit", "bytes", maxUploadBytes)
}
