package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/drummonds/imgconv/config"
	"github.com/drummonds/imgconv/converter"
	"github.com/drummonds/imgconv/formats"
	"github.com/drummonds/imgconv/internal/build"
)

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Sessions     *SessionStore
}

// NewServerHandler builds a handler with an empty session store
func NewServerHandler(e *echo.Echo, serverConfig config.ServerConfig) *ServerHandler {
	return &ServerHandler{
		Echo:         e,
		ServerConfig: serverConfig,
		Sessions:     NewSessionStore(serverConfig.Defaults),
	}
}

// RegisterRoutes adds every API route to the echo instance
func (serverHandler *ServerHandler) RegisterRoutes() {
	e := serverHandler.Echo

	e.GET("/api/formats", serverHandler.GetFormats)
	e.GET("/api/about", serverHandler.GetAboutInfo)
	e.GET("/api/health", serverHandler.GetHealth)

	// One-shot conversion without a session
	e.POST("/api/convert", serverHandler.ConvertUpload)

	// Session API routes
	e.POST("/api/session", serverHandler.CreateSession)
	e.GET("/api/session/:id", serverHandler.GetSession)
	e.PUT("/api/session/:id/source", serverHandler.SelectSource)
	e.PATCH("/api/session/:id/options", serverHandler.UpdateOptions)
	e.POST("/api/session/:id/convert", serverHandler.ConvertSession)
	e.DELETE("/api/session/:id", serverHandler.DeleteSession)
}

// sessionResponse is the JSON view of a converter.Session
type sessionResponse struct {
	ID            string  `json:"id"`
	State         string  `json:"state"`
	FileName      string  `json:"fileName,omitempty"`
	SourceFormat  string  `json:"sourceFormat,omitempty"`
	Preview       string  `json:"preview,omitempty"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	NaturalWidth  float64 `json:"naturalWidth"`
	NaturalHeight float64 `json:"naturalHeight"`
	ScaledWidth   int     `json:"scaledWidth"`
	ScaledHeight  int     `json:"scaledHeight"`
	Scale         float64 `json:"scale"`
	Format        string  `json:"format"`
	OutputName    string  `json:"outputName,omitempty"`
	Error         string  `json:"error,omitempty"`
	Message       string  `json:"message,omitempty"`
}

func newSessionResponse(s converter.Session) sessionResponse {
	resp := sessionResponse{
		ID:     s.ID.String(),
		State:  s.State.String(),
		Scale:  s.Options.Scale,
		Format: string(s.Options.Target),
	}
	if s.Source != nil {
		resp.FileName = s.Source.Name
		resp.OutputName = formats.DeriveFileName(s.Source.Name, s.Options.Target)
	}
	if s.Decoded != nil {
		resp.SourceFormat = string(s.Decoded.Format)
		resp.Preview = s.Decoded.Preview
		resp.Width, resp.Height = s.Decoded.Dimensions.Rounded()
		resp.NaturalWidth, resp.NaturalHeight = s.Decoded.Dimensions.Width, s.Decoded.Dimensions.Height
		resp.ScaledWidth, resp.ScaledHeight = s.ScaledSize()
	}
	if s.Err != nil {
		resp.Error = converter.KindName(s.Err)
		resp.Message = converter.UserMessage(s.Err)
	}
	return resp
}

// errorStatus maps a pipeline error onto an HTTP status code
func errorStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, converter.ErrUnsupportedTargetFormat), errors.Is(err, converter.ErrUnsupportedSource):
		return http.StatusBadRequest
	case errors.Is(err, converter.ErrDecodeFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, converter.ErrNoSource), errors.Is(err, converter.ErrStaleSession):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorJSON writes the standard error body for a pipeline error
func errorJSON(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]interface{}{
		"error":   converter.KindName(err),
		"message": converter.UserMessage(err),
	})
}

// uploadedFile is a multipart file read into memory
type uploadedFile struct {
	Name string
	MIME string
	Data []byte
}

// readUpload reads the multipart "file" field, enforcing the upload limit
func (serverHandler *ServerHandler) readUpload(c echo.Context) (*uploadedFile, error) {
	limit := serverHandler.ServerConfig.MaxUploadBytes
	request := c.Request()
	if limit > 0 {
		// Allow some room for the multipart envelope around the file
		request.Body = http.MaxBytesReader(c.Response(), request.Body, limit+1<<20)
	}

	file, fileHeader, err := request.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if limit > 0 && fileHeader.Size > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read uploaded file %s: %w", fileHeader.Filename, err)
	}
	return &uploadedFile{
		Name: fileHeader.Filename,
		MIME: fileHeader.Header.Get(echo.HeaderContentType),
		Data: data,
	}, nil
}

// uploadError responds to a failed readUpload
func (serverHandler *ServerHandler) uploadError(c echo.Context, err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]interface{}{
			"error":   "UploadTooLarge",
			"message": fmt.Sprintf("The file is larger than the %d MB upload limit.", serverHandler.ServerConfig.MaxUploadBytes>>20),
		})
	}
	Logger.Warn("Problem finding uploaded file", "error", err)
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":   "MissingFile",
		"message": "Attach the image in a multipart field named \"file\".",
	})
}

// sessionError responds with the session view plus the error fields
func sessionError(c echo.Context, s converter.Session, err error) error {
	resp := newSessionResponse(s)
	resp.Error = converter.KindName(err)
	resp.Message = converter.UserMessage(err)
	return c.JSON(errorStatus(err), resp)
}

// GetFormats returns the accepted inputs and the encode targets
// @Summary List formats
// @Description Accepted source types and the output formats that can be encoded
// @Tags Formats
// @Produce json
// @Success 200 {object} map[string]interface{} "Format lists"
// @Router /formats [get]
func (serverHandler *ServerHandler) GetFormats(c echo.Context) error {
	targets := lo.Map(formats.EncodeTargets, func(f formats.Format, _ int) map[string]string {
		return map[string]string{
			"format":    string(f),
			"name":      f.String(),
			"mime":      f.MIME(),
			"extension": f.Extension(),
		}
	})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sources":       formats.SourceMIMETypes(),
		"extensions":    formats.SourceExtensions(),
		"accept":        formats.AcceptAttribute(),
		"targets":       targets,
		"supportedText": formats.SupportedTargetsText(),
	})
}

// GetAboutInfo returns information about the application configuration
// @Summary Get application information
// @Description Retrieve the version, upload limit and default conversion options
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Application information"
// @Router /about [get]
func (serverHandler *ServerHandler) GetAboutInfo(c echo.Context) error {
	aboutInfo := map[string]interface{}{
		"version":        build.Version,
		"maxUploadBytes": serverHandler.ServerConfig.MaxUploadBytes,
		"sessionTTL":     serverHandler.ServerConfig.SessionTTL.String(),
		"activeSessions": serverHandler.Sessions.Len(),
		"defaultFormat":  string(serverHandler.ServerConfig.Defaults.Target),
		"defaultScale":   serverHandler.ServerConfig.Defaults.Scale,
		"minScale":       formats.MinScale,
		"maxScale":       formats.MaxScale,
		"scaleStep":      formats.ScaleStep,
	}
	return c.JSON(http.StatusOK, aboutInfo)
}

// GetHealth reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Router /health [get]
func (serverHandler *ServerHandler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "imgconv API",
	})
}

// CreateSession starts a new conversion session, optionally with a first file
// @Summary Create a session
// @Description Create a conversion session. If a file is attached it is selected and decoded.
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Source image"
// @Param scale formData number false "Scale factor (0.1 to 10)"
// @Param format formData string false "Target format (png, jpeg, webp)"
// @Success 201 {object} sessionResponse "New session"
// @Failure 400 {object} map[string]interface{} "Unsupported source or target"
// @Failure 413 {object} map[string]interface{} "Upload too large"
// @Failure 422 {object} map[string]interface{} "Image could not be decoded"
// @Router /session [post]
func (serverHandler *ServerHandler) CreateSession(c echo.Context) error {
	id, p := serverHandler.Sessions.Create()
	Logger.Info("Session created", "session", id)

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != echo.MIMEMultipartForm {
		return c.JSON(http.StatusCreated, newSessionResponse(p.Session()))
	}

	upload, err := serverHandler.readUpload(c)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			serverHandler.Sessions.Delete(id.String())
			return serverHandler.uploadError(c, err)
		}
		// A multipart body without a file is still a valid empty session
		return c.JSON(http.StatusCreated, newSessionResponse(p.Session()))
	}

	// The target is checked before any decode work starts
	if format := c.FormValue("format"); format != "" {
		if _, err := p.SetTarget(format); err != nil {
			serverHandler.Sessions.Delete(id.String())
			Logger.Warn("Refused session with unsupported target", "session", id, "format", format)
			return errorJSON(c, err)
		}
	}
	if scale := c.FormValue("scale"); scale != "" {
		p.SetScale(scale)
	}
	s, err := p.Select(c.Request().Context(), upload.Name, upload.MIME, upload.Data)
	if err != nil {
		return sessionError(c, s, err)
	}
	return c.JSON(http.StatusCreated, newSessionResponse(s))
}

// GetSession returns the current state of a session
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID (ULID)"
// @Success 200 {object} sessionResponse "Session"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /session/{id} [get]
func (serverHandler *ServerHandler) GetSession(c echo.Context) error {
	p, ok := serverHandler.Sessions.Get(c.Param("id"))
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(http.StatusOK, newSessionResponse(p.Session()))
}

// SelectSource replaces the session's source with a newly uploaded file.
// Anything still converting from the previous file is cancelled and dropped.
// @Summary Select a new source image
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID (ULID)"
// @Param file formData file true "Source image"
// @Success 200 {object} sessionResponse "Session with the decoded source"
// @Failure 400 {object} map[string]interface{} "Unsupported source"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 413 {object} map[string]interface{} "Upload too large"
// @Failure 422 {object} map[string]interface{} "Image could not be decoded"
// @Router /session/{id}/source [put]
func (serverHandler *ServerHandler) SelectSource(c echo.Context) error {
	p, ok := serverHandler.Sessions.Get(c.Param("id"))
	if !ok {
		return sessionNotFound(c)
	}
	upload, err := serverHandler.readUpload(c)
	if err != nil {
		return serverHandler.uploadError(c, err)
	}
	s, err := p.Select(c.Request().Context(), upload.Name, upload.MIME, upload.Data)
	if err != nil {
		return sessionError(c, s, err)
	}
	return c.JSON(http.StatusOK, newSessionResponse(s))
}

// rawScale holds the scale exactly as the control sent it. Both JSON numbers and
// strings are accepted so blank or non-numeric input can be reset the same way.
type rawScale string

func (r *rawScale) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*r = rawScale(text)
		return nil
	}
	*r = rawScale(strings.TrimSpace(string(b)))
	return nil
}

// optionsRequest is the body of UpdateOptions
type optionsRequest struct {
	Scale  *rawScale `json:"scale"`
	Format *string   `json:"format"`
}

// UpdateOptions changes the scale and target format
// @Summary Update conversion options
// @Description Scale is clamped to 0.1..10; blank or non-numeric input resets it to 1.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (ULID)"
// @Param options body optionsRequest true "Scale and format"
// @Success 200 {object} sessionResponse "Session with clamped options"
// @Failure 400 {object} map[string]interface{} "Unsupported target format"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /session/{id}/options [patch]
func (serverHandler *ServerHandler) UpdateOptions(c echo.Context) error {
	p, ok := serverHandler.Sessions.Get(c.Param("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req optionsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "BadRequest",
			"message": "Options must be JSON with \"scale\" and \"format\".",
		})
	}

	if req.Scale != nil {
		p.SetScale(string(*req.Scale))
	}
	if req.Format != nil {
		if s, err := p.SetTarget(*req.Format); err != nil {
			return sessionError(c, s, err)
		}
	}
	return c.JSON(http.StatusOK, newSessionResponse(p.Session()))
}

// ConvertSession converts the session's source and returns it as a download
// @Summary Convert the current image
// @Description Rasterize, encode and download the current source with the session's options
// @Tags Sessions
// @Produce octet-stream
// @Param id path string true "Session ID (ULID)"
// @Success 200 {file} file "Converted image as an attachment"
// @Failure 400 {object} map[string]interface{} "Unsupported target format"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 409 {object} map[string]interface{} "No source, or source replaced during conversion"
// @Failure 500 {object} map[string]interface{} "Encoding failed"
// @Router /session/{id}/convert [post]
func (serverHandler *ServerHandler) ConvertSession(c echo.Context) error {
	p, ok := serverHandler.Sessions.Get(c.Param("id"))
	if !ok {
		return sessionNotFound(c)
	}
	if _, err := p.Convert(c.Request().Context(), attachmentSink(c)); err != nil {
		Logger.Warn("Conversion failed", "session", c.Param("id"), "error", err)
		return errorJSON(c, err)
	}
	return nil
}

// ConvertUpload converts an uploaded file in one request without keeping a session
// @Summary Convert an uploaded image
// @Tags Formats
// @Accept multipart/form-data
// @Produce octet-stream
// @Param file formData file true "Source image"
// @Param scale formData number false "Scale factor (0.1 to 10)"
// @Param format formData string false "Target format (png, jpeg, webp)"
// @Success 200 {file} file "Converted image as an attachment"
// @Failure 400 {object} map[string]interface{} "Unsupported source or target"
// @Failure 413 {object} map[string]interface{} "Upload too large"
// @Failure 422 {object} map[string]interface{} "Image could not be decoded"
// @Router /convert [post]
func (serverHandler *ServerHandler) ConvertUpload(c echo.Context) error {
	upload, err := serverHandler.readUpload(c)
	if err != nil {
		return serverHandler.uploadError(c, err)
	}

	opts := serverHandler.ServerConfig.Defaults
	if opts.Target == "" {
		opts = formats.DefaultOptions()
	}
	if scale := c.FormValue("scale"); scale != "" {
		opts.Scale = formats.ParseScale(scale)
	}
	if format := c.FormValue("format"); format != "" {
		opts.Target = formats.ParseFormat(format)
	}

	out, err := converter.ConvertBytes(c.Request().Context(), upload.Name, upload.MIME, upload.Data, opts)
	if err != nil {
		Logger.Warn("One-shot conversion failed", "name", upload.Name, "error", err)
		return errorJSON(c, err)
	}
	return attachmentSink(c).Deliver(c.Request().Context(), out)
}

// DeleteSession discards a session
// @Summary Delete a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID (ULID)"
// @Success 200 {string} string "Session Deleted"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /session/{id} [delete]
func (serverHandler *ServerHandler) DeleteSession(c echo.Context) error {
	if !serverHandler.Sessions.Delete(c.Param("id")) {
		return sessionNotFound(c)
	}
	return c.JSON(http.StatusOK, "Session Deleted")
}

func sessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]interface{}{
		"error":   "SessionNotFound",
		"message": "This session has expired. Please select the image again.",
	})
}

// attachmentSink delivers an OutputAsset as the response body with a download filename
func attachmentSink(c echo.Context) converter.Sink {
	return converter.SinkFunc(func(_ context.Context, out *converter.OutputAsset) error {
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": out.Name})
		c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
		return c.Blob(http.StatusOK, out.MIME, out.Data)
	})
}
