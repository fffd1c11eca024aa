package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/api/middleware"
	"github.com/maksv/social-network-api/internal/service"
	"github.com/maksv/social-network-api/pkg/validator"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type UpdatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type UncommentRequest struct {
	CommentID string `json:"commentId"`
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	posts, total, err := h.postService.ListPosts(r.Context(), page, pageSize)
	if err != nil {
		log.Printf("ERROR [post.List] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writePaginated(w, page, pageSize, total, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeError(w, http.StatusBadRequest, "Post not found.")
			return
		}
		log.Printf("ERROR [post.Get] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeSuccess(w, post)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	input, err := parsePostCreate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errs := validator.ValidatePost(input.Title, input.Body); errs.HasErrors() {
		writeValidationError(w, errs)
		return
	}

	post, err := h.postService.CreatePost(r.Context(), authorID, input)
	if err != nil {
		log.Printf("ERROR [post.Create] %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	input, err := parsePostUpdate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), actorID, id, input)
	if err != nil {
		h.writePostError(w, err, "post.Update")
		return
	}

	writeSuccessMessage(w, post, "Post updated successfully")
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.postService.DeletePost(r.Context(), actorID, id); err != nil {
		h.writePostError(w, err, "post.Delete")
		return
	}

	writeSuccessMessage(w, nil, "Post deleted successfully")
}

func (h *PostHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	photo, contentType, err := h.postService.GetPhoto(r.Context(), id)
	if err != nil || len(photo) == 0 {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(photo)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, h.postService.Like)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, h.postService.Unlike)
}

func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	post, err := h.postService.Comment(r.Context(), postID, userID, req.Text)
	if err != nil {
		h.writePostError(w, err, "post.Comment")
		return
	}

	writeSuccess(w, post)
}

func (h *PostHandler) Uncomment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req UncommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	post, err := h.postService.Uncomment(r.Context(), postID, commentID)
	if err != nil {
		h.writePostError(w, err, "post.Uncomment")
		return
	}

	writeSuccess(w, post)
}

func (h *PostHandler) mutateLikes(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, uuid.UUID) (*service.PostView, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := op(r.Context(), postID, userID)
	if err != nil {
		h.writePostError(w, err, "post.mutateLikes")
		return
	}

	writeSuccess(w, post)
}

func (h *PostHandler) writePostError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusBadRequest, "Post not found.")
	case errors.Is(err, service.ErrNotPostOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("ERROR [%s] %v", op, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parsePostCreate(r *http.Request) (service.CreatePostInput, error) {
	var input service.CreatePostInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return input, errors.New("invalid form data")
		}
		input.Title = r.FormValue("title")
		input.Body = r.FormValue("body")

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

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, errors.New("invalid request body")
	}
	input.Title = req.Title
	input.Body = req.Body
	return input, nil
}

func parsePostUpdate(r *http.Request) (service.UpdatePostInput, error) {
	var input service.UpdatePostInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return input, errors.New("invalid form data")
		}
		if v := r.FormValue("title"); v != "" {
			input.Title = &v
		}
		if v := r.FormValue("body"); v != "" {
			input.Body = &v
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

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, errors.New("invalid request body")
	}
	input.Title = req.Title
	input.Body = req.Body
	return input, nil
}
