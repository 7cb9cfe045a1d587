package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neuraledu/proctor_backend_v1/internal/engine"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

// MediaController handles the teacher's course material uploads. Documents
// and videos each occupy a single slot; a new upload replaces the old one.
type MediaController struct {
	Engine *engine.Engine
	Store  *store.Store
}

func (m *MediaController) UploadDocument(c *gin.Context) {
	name, payload, ok := readUpload(c)
	if !ok {
		return
	}
	media, err := m.Engine.UploadDocument(name, payload)
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": media.ID, "name": media.Name, "size": media.Size})
}

func (m *MediaController) UploadVideo(c *gin.Context) {
	name, payload, ok := readUpload(c)
	if !ok {
		return
	}
	media, err := m.Engine.UploadVideo(name, payload)
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": media.ID, "name": media.Name, "size": media.Size})
}

func (m *MediaController) List(c *gin.Context) {
	items, err := m.Store.Media()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{"id": it.ID, "kind": it.Kind, "name": it.Name, "size": it.Size, "ts": it.Ts})
	}
	c.JSON(http.StatusOK, out)
}

func (m *MediaController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	if err := m.Store.DeleteMedia(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// readUpload pulls the multipart "file" field into memory. Size limits are
// enforced by the engine, not here, so an oversize rejection can be reported
// with its own status.
func readUpload(c *gin.Context) (string, []byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return "", nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", nil, false
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", nil, false
	}
	return fh.Filename, payload, true
}
