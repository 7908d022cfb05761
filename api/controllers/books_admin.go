package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prensprays-byte/library-inventory-system/api/middleware"
	"github.com/prensprays-byte/library-inventory-system/api/responses"
	"github.com/prensprays-byte/library-inventory-system/api/validators"
	"github.com/prensprays-byte/library-inventory-system/internal/books"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
)

// AdminListBooks returns the whole catalog, newest first.
func AdminListBooks(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		items, err := svc.ListAdmin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nonNilBooks(items))
	}
}

// AdminCreateBook validates and stores a new catalog record.
func AdminCreateBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		var body books.CreateBookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Create(r.Context(), body, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, book)
	}
}

// AdminGetBook fetches one record by id.
func AdminGetBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		book, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// AdminUpdateBook applies a partial edit and returns the merged record.
func AdminUpdateBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		var body books.UpdateBookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Update(r.Context(), chi.URLParam(r, "id"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// AdminDeleteBook removes a record.
func AdminDeleteBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, books.DeleteResponse{OK: true})
	}
}
