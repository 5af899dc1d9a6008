package server

import (
	"net/http"
	"strings"

	"greetcard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetMessage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		id = strings.TrimSpace(c.Query("id"))
	}
	if id == "" {
		writeJSON(c, http.StatusOK, domain.Message{Text: s.defaultText})
		return
	}
	msg, err := s.store.GetMessage(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, msg)
}

func (s *Server) handleCreateMessage(c *gin.Context) {
	in, ok := bindMessage(c)
	if !ok {
		return
	}
	msg, err := s.store.CreateMessage(c.Request.Context(), in)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, msg)
}

func (s *Server) handleUpdateMessage(c *gin.Context) {
	in, ok := bindMessage(c)
	if !ok {
		return
	}
	msg, err := s.store.UpdateMessage(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, msg)
}

func (s *Server) handleListPhotos(c *gin.Context) {
	photos, err := s.store.ListPhotos(c.Request.Context(), c.Query("messageId"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, photos)
}

func (s *Server) handleAddPhoto(c *gin.Context) {
	var in domain.PhotoInput
	if err := readJSON(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	photo, err := s.store.AddPhoto(c.Request.Context(), in)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, photo)
}

func (s *Server) handleDeletePhoto(c *gin.Context) {
	if err := s.store.DeletePhoto(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindMessage decodes and validates a message payload, answering 400 itself
// when the payload is unusable.
func bindMessage(c *gin.Context) (domain.MessageInput, bool) {
	var in domain.MessageInput
	if err := readJSON(c, &in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return domain.MessageInput{}, false
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return domain.MessageInput{}, false
	}
	return in, true
}
