package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/api/middleware"
	"github.com/maksv/social-network-api/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPhotoBytes   = 8 << 20
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	users, total, err := h.userService.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		log.Printf("ERROR [user.List] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writePaginated(w, page, pageSize, total, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid user id")
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusInternalServerError, "User not found.")
			return
		}
		log.Printf("ERROR [user.Get] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, user)
}

// Update accepts either a JSON body or a multipart form with an optional
// photo part.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	input, err := parseUserUpdate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actorID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotProfileOwner):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "User not found.")
		default:
			log.Printf("ERROR [user.Update] %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeSuccessMessage(w, user, "User updated successfully")
}

func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	photo, contentType, err := h.userService.GetAvatar(r.Context(), id)
	if err != nil || len(photo) == 0 {
		writeError(w, http.StatusNotFound, "Avatar not found")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(photo)
}

func (h *UserHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid user id")
		return
	}

	status, err := strconv.ParseBool(chi.URLParam(r, "status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid status")
		return
	}

	if err := h.userService.ChangeStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusInternalServerError, "User not found.")
			return
		}
		log.Printf("ERROR [user.ChangeStatus] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, nil)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.Follow(r.Context(), followerID, targetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, user)
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.Unfollow(r.Context(), followerID, targetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, user)
}

func parseUserUpdate(r *http.Request) (service.UpdateProfileInput, error) {
	var input service.UpdateProfileInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return input, errors.New("invalid form data")
		}

		if v := r.FormValue("firstName"); v != "" {
			input.FirstName = &v
		}
		if v := r.FormValue("lastName"); v != "" {
			input.LastName = &v
		}
		if v := r.FormValue("email"); v != "" {
			input.Email = &v
		}

		file, header, err := r.FormFile("photo")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return input, errors.New("unable to read photo")
			}
			input.Photo = data
			input.PhotoContentType = header.Header.Get("Content-Type")
		}
		return input, nil
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, errors.New("invalid request body")
	}
	input.FirstName = req.FirstName
	input.LastName = req.LastName
	input.Email = req.Email
	return input, nil
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = defaultPage
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
