package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookstore-backend/internal/catalog"
)

type BooksHandler struct {
	Catalog *catalog.Service
	Log     *zap.Logger
}

func (h *BooksHandler) Register(r *chi.Mux) {
	r.Get("/api/books", h.listBooks)
}

func (h *BooksHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	books, err := h.Catalog.ListBooks(ctx)
	if err != nil {
		h.Log.Error("list books failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch books"})
		return
	}
	if books == nil {
		books = []catalog.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}
