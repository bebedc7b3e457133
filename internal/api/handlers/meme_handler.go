package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kliksy/kliksy-be/internal/apperr"
	"github.com/kliksy/kliksy-be/internal/models"
	"github.com/kliksy/kliksy-be/internal/services"
)

// MemeHandler handles upload, privacy changes, deletion and the profile list.
type MemeHandler struct {
	users    services.UserServiceProvider
	memes    services.MemeServiceProvider
	activity services.ActivityRecorder
}

// NewMemeHandler creates a new MemeHandler.
func NewMemeHandler(users services.UserServiceProvider, memes services.MemeServiceProvider, activity services.ActivityRecorder) *MemeHandler {
	return &MemeHandler{users: users, memes: memes, activity: activity}
}

// UploadPayload defines the structure for upload requests.
type UploadPayload struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
	File        struct {
		Data        string `json:"data"`
		ContentType string `json:"contentType"`
		SizeBytes   *int64 `json:"sizeBytes"`
	} `json:"file"`
}

// Upload decodes the base64 payload, stores the object and inserts the meme.
func (h *MemeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var payload UploadPayload
	json.NewDecoder(r.Body).Decode(&payload)

	identifier := strings.ToLower(strings.TrimSpace(payload.Email))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(payload.Username))
	}

	privacy := strings.ToLower(strings.TrimSpace(payload.Privacy))
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	if !models.ValidPrivacy(privacy) {
		respondError(w, r, apperr.BadRequest("privacy must be public or private"))
		return
	}
	if identifier == "" {
		respondError(w, r, apperr.BadRequest("email or username is required"))
		return
	}
	if payload.File.Data == "" {
		respondError(w, r, apperr.BadRequest("file data is required"))
		return
	}

	data, err := base64.StdEncoding.DecodeString(payload.File.Data)
	if err != nil {
		respondError(w, r, apperr.BadRequest("file data is not valid base64"))
		return
	}

	contentType := payload.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	user, err := h.users.Resolve(identifier)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meme, err := h.memes.Upload(r.Context(), user, services.UploadInput{
		Description: strings.TrimSpace(payload.Description),
		Privacy:     privacy,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.activity.Record(models.ActionUploadMeme, fmt.Sprintf("user uploaded meme: %s - meme %s", user.Email, meme.ID))
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Upload successful",
		"meme":    meme,
	})
}

// privacyRequest is a change-privacy request after normalization.
type privacyRequest struct {
	Identifier string `validate:"required"`
	MemeID     string `validate:"required"`
	Privacy    string `validate:"required,oneof=public private"`
}

// ChangePrivacy updates the visibility of a caller-owned meme.
func (h *MemeHandler) ChangePrivacy(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	req := privacyRequest{
		Identifier: requestIdentifier(r, body),
		MemeID:     requestMemeID(r, body),
		Privacy:    requestPrivacy(r, body),
	}

	if req.Identifier == "" {
		respondError(w, r, apperr.BadRequest("email or username is required"))
		return
	}
	if req.MemeID == "" {
		respondError(w, r, apperr.BadRequest("memeId is required"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, r, apperr.BadRequest(`privacy must be either "public" or "private"`))
		return
	}

	user, err := h.users.Resolve(req.Identifier)
	if err != nil {
		respondError(w, r, err)
		return
	}

	change, err := h.memes.ChangePrivacy(r.Context(), user, req.MemeID, req.Privacy)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.activity.Record(models.ActionUpdatePrivacy,
		fmt.Sprintf("user changed meme privacy: %s - meme %s from %s to %s",
			user.Email, change.MemeID, change.OldPrivacy, change.NewPrivacy))

	respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Privacy updated successfully",
		"memeId":     change.MemeID,
		"oldPrivacy": change.OldPrivacy,
		"newPrivacy": change.NewPrivacy,
	})
}

// Delete removes a caller-owned meme and its stored object.
func (h *MemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	identifier := requestIdentifier(r, body)
	memeID := requestMemeID(r, body)

	if identifier == "" {
		respondError(w, r, apperr.BadRequest("email or username is required"))
		return
	}
	if memeID == "" {
		respondError(w, r, apperr.BadRequest("memeId is required"))
		return
	}

	user, err := h.users.Resolve(identifier)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s3Key, err := h.memes.Delete(r.Context(), user, memeID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.activity.Record(models.ActionDeleteMeme, fmt.Sprintf("user deleted meme: %s - meme %s", user.Email, memeID))

	payload := map[string]string{
		"message": "Meme deleted successfully",
		"memeId":  memeID,
	}
	if s3Key != "" {
		payload["s3Key"] = s3Key
	}
	respondJSON(w, http.StatusOK, payload)
}

// ProfileList returns one page of the caller's memes with aggregate counts.
func (h *MemeHandler) ProfileList(w http.ResponseWriter, r *http.Request) {
	identifier := requestIdentifier(r, decodeBody(r))
	if identifier == "" {
		respondError(w, r, apperr.BadRequest("email or username is required"))
		return
	}

	user, err := h.users.Resolve(identifier)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.memes.ProfileList(r.Context(), user, queryInt(r, "page"), queryInt(r, "pageSize"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
