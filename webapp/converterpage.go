package webapp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/imgconv/formats"
)

// ConverterPage is the drop zone, preview, options and convert button
type ConverterPage struct {
	app.Compo
	session    SessionInfo
	scaleText  string
	format     formats.Format
	uploading  bool
	converting bool
	error      string
	status     string
	dragging   bool
	// selection increases on every file pick; a download started for an older
	// selection is discarded when it arrives
	selection int
}

// OnMount is called when the component is mounted
func (c *ConverterPage) OnMount(ctx app.Context) {
	c.scaleText = formatScale(formats.DefaultScale)
	c.format = formats.PNG
	if app.IsClient {
		c.createSession(ctx)
	}
}

// createSession asks the server for an empty session to hold the user's image
func (c *ConverterPage) createSession(ctx app.Context) {
	fetchText(ctx, BuildAPIURL("/api/session"), newRequestInit(http.MethodPost),
		func(ctx app.Context, status int, body string) {
			if status != http.StatusCreated {
				c.error = parseAPIError(body, "Unable to start a conversion session")
				return
			}
			c.applySession(body)
		},
		func(ctx app.Context) {
			c.error = "Network error: Could not connect to server"
		})
}

// Render renders the converter page
func (c *ConverterPage) Render() app.UI {
	return app.Div().
		Class("converter-page").
		Body(
			app.H2().Text("Image Converter"),
			c.renderDropZone(),
			c.renderPreview(),
			c.renderControls(),
			c.renderStatus(),
		)
}

// renderDropZone renders the file picker and drop target
func (c *ConverterPage) renderDropZone() app.UI {
	class := "drop-zone"
	if c.dragging {
		class += " drop-zone-active"
	}
	label := "Drop an image here or click to choose one"
	if c.uploading {
		label = "Loading image..."
	}

	return app.Label().
		Class(class).
		OnDragOver(c.onDragOver).
		OnDragLeave(func(ctx app.Context, e app.Event) { c.dragging = false }).
		OnDrop(c.onDrop).
		Body(
			app.Input().
				Type("file").
				Class("file-input").
				Accept(formats.AcceptAttribute()).
				OnChange(c.onFileChange),
			app.Span().Class("drop-zone-label").Text(label),
			app.P().Class("format-hint").Text(inputFormatsText()),
			app.P().Class("format-hint").Text("Output formats: "+formats.SupportedTargetsText()),
		)
}

// renderPreview shows the selected image and its sizes
func (c *ConverterPage) renderPreview() app.UI {
	if !c.session.HasSource() {
		return app.Div()
	}
	return app.Div().Class("preview").Body(
		app.Img().
			Class("preview-image").
			Src(c.session.Preview).
			Alt(c.session.FileName),
		app.Div().Class("preview-info").Body(
			app.P().Body(
				app.Strong().Text("File: "),
				app.Text(c.session.FileName),
			),
			app.P().Body(
				app.Strong().Text("Original size: "),
				app.Text(sizeText(c.session.Width, c.session.Height)),
			),
			app.P().Body(
				app.Strong().Text("Scaled size: "),
				app.Text(scaledSizeText(c.session, formats.ParseScale(c.scaleText))),
			),
		),
	)
}

// renderControls renders the scale input, format select and convert button
func (c *ConverterPage) renderControls() app.UI {
	buttonText := "Convert"
	if c.converting {
		buttonText = "Converting..."
	}

	return app.Div().Class("converter-controls").Body(
		app.Label().Class("control").Body(
			app.Span().Text("Scale"),
			app.Input().
				Type("number").
				Class("scale-input").
				Min(formats.MinScale).
				Max(formats.MaxScale).
				Step(formats.ScaleStep).
				Value(c.scaleText).
				OnChange(c.onScaleChange),
		),
		app.Label().Class("control").Body(
			app.Span().Text("Format"),
			app.Select().
				Class("format-select").
				OnChange(c.onFormatChange).
				Body(
					app.Range(formats.EncodeTargets).Slice(func(i int) app.UI {
						target := formats.EncodeTargets[i]
						return app.Option().
							Value(string(target)).
							Selected(target == c.format).
							Text(target.String())
					}),
				),
		),
		app.Button().
			Class("btn-primary").
			Disabled(!c.session.HasSource() || c.converting || c.uploading).
			OnClick(c.onConvertClick).
			Body(app.Text(buttonText)),
	)
}

// renderStatus renders the status section
func (c *ConverterPage) renderStatus() app.UI {
	if c.error != "" {
		return app.Div().Class("error").Body(
			app.Text(c.error),
		)
	}
	if c.status != "" {
		return app.Div().Class("success").Body(
			app.Text(c.status),
		)
	}
	return app.Div()
}

func (c *ConverterPage) onDragOver(ctx app.Context, e app.Event) {
	e.PreventDefault()
	c.dragging = true
}

// onDrop takes the first dropped file; only one image is converted at a time
func (c *ConverterPage) onDrop(ctx app.Context, e app.Event) {
	e.PreventDefault()
	c.dragging = false
	files := e.Get("dataTransfer").Get("files")
	if !files.Truthy() || files.Get("length").Int() == 0 {
		return
	}
	c.uploadFile(ctx, files.Index(0))
}

func (c *ConverterPage) onFileChange(ctx app.Context, e app.Event) {
	files := ctx.JSSrc().Get("files")
	if !files.Truthy() || files.Get("length").Int() == 0 {
		return
	}
	c.uploadFile(ctx, files.Index(0))
}

// uploadFile replaces the session's source with file
func (c *ConverterPage) uploadFile(ctx app.Context, file app.Value) {
	c.selection++
	selection := c.selection
	c.uploading = true
	c.error = ""
	c.status = ""

	formData := app.Window().Get("FormData").New()
	formData.Call("append", "file", file)

	url := BuildAPIURL("/api/session")
	reqInit := newRequestInit(http.MethodPost)
	if c.session.ID != "" {
		url = BuildAPIURL("/api/session/" + c.session.ID + "/source")
		reqInit = newRequestInit(http.MethodPut)
	}
	reqInit.Set("body", formData)

	fetchText(ctx, url, reqInit,
		func(ctx app.Context, status int, body string) {
			if selection != c.selection {
				return
			}
			c.uploading = false
			if status == http.StatusNotFound {
				// The session expired; start over with a fresh one carrying this file
				c.session = SessionInfo{}
				c.uploadFile(ctx, file)
				return
			}
			c.applySession(body)
			if status >= 300 {
				c.error = parseAPIError(body, "Error loading image. Please try again.")
			}
		},
		func(ctx app.Context) {
			c.uploading = false
			c.error = "Network error: Could not connect to server"
		})
}

// onScaleChange applies the scale immediately and sends it to the server
func (c *ConverterPage) onScaleChange(ctx app.Context, e app.Event) {
	raw := ctx.JSSrc().Get("value").String()
	c.scaleText = formatScale(formats.ParseScale(raw))
	ctx.JSSrc().Set("value", c.scaleText)
	c.updateOptions(ctx, map[string]any{"scale": raw})
}

// onFormatChange records the target format
func (c *ConverterPage) onFormatChange(ctx app.Context, e app.Event) {
	c.format = formats.ParseFormat(ctx.JSSrc().Get("value").String())
	c.error = ""
	if !c.format.CanEncode() {
		c.error = unsupportedTargetText(c.format)
	}
	c.updateOptions(ctx, map[string]any{"format": string(c.format)})
}

// updateOptions patches the session's options
func (c *ConverterPage) updateOptions(ctx app.Context, options map[string]any) {
	if c.session.ID == "" {
		return
	}
	reqInit, err := jsonRequestInit(http.MethodPatch, options)
	if err != nil {
		c.error = fmt.Sprintf("Unable to encode options: %v", err)
		return
	}
	fetchText(ctx, BuildAPIURL("/api/session/"+c.session.ID+"/options"), reqInit,
		func(ctx app.Context, status int, body string) {
			if status >= 300 {
				c.error = parseAPIError(body, "Unable to update options")
				return
			}
			c.applySession(body)
		},
		func(ctx app.Context) {
			c.error = "Network error: Could not connect to server"
		})
}

// onConvertClick converts the current image and downloads the result
func (c *ConverterPage) onConvertClick(ctx app.Context, e app.Event) {
	if !c.session.HasSource() || c.converting {
		return
	}
	if !c.format.CanEncode() {
		c.error = unsupportedTargetText(c.format)
		return
	}
	c.converting = true
	c.error = ""
	c.status = ""
	c.convert(ctx)
}

// convert posts to the convert endpoint and saves the returned blob
func (c *ConverterPage) convert(ctx app.Context) {
	selection := c.selection
	fileName := downloadName(c.session, c.format)
	url := BuildAPIURL("/api/session/" + c.session.ID + "/convert")

	ctx.Async(func() {
		res := app.Window().Call("fetch", url, newRequestInit(http.MethodPost))

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]
			status := response.Get("status").Int()

			if status != http.StatusOK {
				response.Call("text").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
					body := ""
					if len(args) > 0 {
						body = args[0].String()
					}
					ctx.Dispatch(func(ctx app.Context) {
						c.converting = false
						c.error = parseAPIError(body, "Error during conversion. Please try another format.")
					})
					return nil
				}))
				return nil
			}

			response.Call("blob").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				if len(args) == 0 {
					return nil
				}
				blob := args[0]
				ctx.Dispatch(func(ctx app.Context) {
					c.converting = false
					if selection != c.selection {
						// A new image was picked while this one was converting
						return
					}
					saveBlob(blob, fileName)
					c.status = "Saved " + fileName
				})
				return nil
			}))

			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) {
				c.converting = false
				c.error = "Network error: Could not connect to server"
			})
			return nil
		}))
	})
}

// applySession updates the page from a session JSON body
func (c *ConverterPage) applySession(body string) {
	var session SessionInfo
	if err := json.Unmarshal([]byte(body), &session); err != nil {
		c.error = fmt.Sprintf("Failed to parse response: %v", err)
		return
	}
	if session.ID == "" {
		return
	}
	c.session = session
	if session.Scale > 0 {
		c.scaleText = formatScale(session.Scale)
	}
	if session.Format != "" {
		c.format = formats.ParseFormat(session.Format)
	}
}

// saveBlob triggers a browser download of blob under fileName
func saveBlob(blob app.Value, fileName string) {
	urlAPI := app.Window().Get("URL")
	objectURL := urlAPI.Call("createObjectURL", blob)
	doc := app.Window().Get("document")
	anchor := doc.Call("createElement", "a")
	anchor.Set("href", objectURL)
	anchor.Set("download", fileName)
	doc.Get("body").Call("appendChild", anchor)
	anchor.Call("click")
	doc.Get("body").Call("removeChild", anchor)
	urlAPI.Call("revokeObjectURL", objectURL)
}

// formatScale renders a scale without trailing zeros
func formatScale(scale float64) string {
	return strconv.FormatFloat(scale, 'f', -1, 64)
}

// sizeText renders "W × H px"
func sizeText(width, height int) string {
	return fmt.Sprintf("%d × %d px", width, height)
}

// scaledSizeText computes the output size locally so it updates as the scale changes.
// SVG sizes can be fractional, so the unrounded size is used when the server sends it.
func scaledSizeText(session SessionInfo, scale float64) string {
	if !session.HasSource() {
		return ""
	}
	dims := formats.Dimensions{Width: session.NaturalWidth, Height: session.NaturalHeight}
	if dims.Width <= 0 || dims.Height <= 0 {
		dims = formats.Dimensions{Width: float64(session.Width), Height: float64(session.Height)}
	}
	w, h := dims.Scaled(scale)
	return sizeText(w, h)
}

// downloadName is the file name the converted image is saved under
func downloadName(session SessionInfo, target formats.Format) string {
	return formats.DeriveFileName(session.FileName, target)
}

// inputFormatsText lists the accepted input types for the drop zone hint
func inputFormatsText() string {
	return "Input formats: " + formats.SourceFormatsText()
}

// unsupportedTargetText is the message shown for a format with no encoder
func unsupportedTargetText(target formats.Format) string {
	return fmt.Sprintf("Sorry, %s conversion is not supported. Currently supported output formats are: %s.",
		target, formats.SupportedTargetsText())
}
