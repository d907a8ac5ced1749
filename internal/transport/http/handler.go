package remixhttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mhpenta/remix"
	"github.com/mhpenta/remix/session"
)

type handler struct {
	session   *session.Session
	logger    *slog.Logger
	maxUpload int64
	genCtx    func() context.Context
}

func newHandler(s *session.Session, logger *slog.Logger, maxUpload int64, genCtx func() context.Context) *handler {
	if maxUpload <= 0 {
		maxUpload = remix.MaxImageSize
	}
	return &handler{session: s, logger: logger, maxUpload: maxUpload, genCtx: genCtx}
}

// Register mounts the session routes on rg.
func (h *handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.getSession)
	rg.PUT("/images/:slot", h.putImage)
	rg.GET("/images/:slot", h.getImage)
	rg.DELETE("/images/:slot", h.deleteImage)
	rg.PUT("/prompt", h.putPrompt)
	rg.POST("/generate", h.generate)
	rg.POST("/reset", h.reset)
	rg.GET("/result/image", h.resultImage)
}

type imageView struct {
	MIMEType string `json:"mime_type"`
	Size     int    `json:"size"`
}

type resultView struct {
	ImageURL string `json:"image_url,omitempty"`
	Text     string `json:"text,omitempty"`
}

type sessionView struct {
	State      string      `json:"state"`
	ImageA     *imageView  `json:"image_a"`
	ImageB     *imageView  `json:"image_b"`
	Prompt     string      `json:"prompt"`
	Generating bool        `json:"generating"`
	Result     *resultView `json:"result"`
	Error      string      `json:"error,omitempty"`
}

func toImageView(img *remix.ImageInput) *imageView {
	if img == nil {
		return nil
	}
	return &imageView{MIMEType: img.MIMEType, Size: len(img.Data)}
}

func toSessionView(snap session.Snapshot) sessionView {
	view := sessionView{
		State:      snap.State().String(),
		ImageA:     toImageView(snap.ImageA),
		ImageB:     toImageView(snap.ImageB),
		Prompt:     snap.Prompt,
		Generating: snap.Generating,
		Error:      snap.Error,
	}
	if snap.Result != nil {
		view.Result = &resultView{ImageURL: snap.Result.ImageURL, Text: snap.Result.Text}
	}
	return view
}

func (h *handler) writeSession(c *gin.Context, status int) {
	c.JSON(status, toSessionView(h.session.Snapshot()))
}

func (h *handler) getSession(c *gin.Context) {
	h.writeSession(c, http.StatusOK)
}

func (h *handler) putImage(c *gin.Context) {
	slot, err := remix.ParseSlot(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	source, err := remix.ParseSource(c.PostForm("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	if fh.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": remix.ErrImageTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if int64(len(data)) > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": remix.ErrImageTooLarge.Error()})
		return
	}

	img := remix.ImageFromBytes(data, declaredType(fh.Header.Get("Content-Type")))
	if err := source.Accept(img); err != nil {
		// Dropped non-images are ignored: the slot keeps its previous image.
		h.logger.Debug("dropped file rejected", "slot", slot.String(), "mime_type", img.MIMEType)
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.SetImage(slot, &img); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeSession(c, http.StatusOK)
}

// declaredType returns the client's content type, or "" when it carries no
// information and the content should be sniffed instead.
func declaredType(contentType string) string {
	mime := strings.TrimSpace(contentType)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if strings.EqualFold(mime, "application/octet-stream") {
		return ""
	}
	return mime
}

func (h *handler) getImage(c *gin.Context) {
	slot, err := remix.ParseSlot(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	snap := h.session.Snapshot()
	img := snap.ImageA
	if slot == remix.SlotB {
		img = snap.ImageB
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("image %s is empty", slot)})
		return
	}
	c.Data(http.StatusOK, img.MIMEType, img.Data)
}

func (h *handler) deleteImage(c *gin.Context) {
	slot, err := remix.ParseSlot(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.SetImage(slot, nil); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeSession(c, http.StatusOK)
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (h *handler) putPrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.session.SetPrompt(req.Prompt)
	h.writeSession(c, http.StatusOK)
}

func (h *handler) generate(c *gin.Context) {
	if _, ok := h.session.Start(h.genCtx()); !ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "session is not ready or a generation is already in progress",
			"session": toSessionView(h.session.Snapshot()),
		})
		return
	}
	h.writeSession(c, http.StatusAccepted)
}

func (h *handler) reset(c *gin.Context) {
	h.session.Reset()
	h.writeSession(c, http.StatusOK)
}

func (h *handler) resultImage(c *gin.Context) {
	snap := h.session.Snapshot()
	data, mimeType, err := snap.Result.ImageBytes()
	if err != nil {
		status := http.StatusNotFound
		if !errors.Is(err, remix.ErrNoResultImage) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", remix.ExportFileName))
	c.Data(http.StatusOK, mimeType, data)
}
