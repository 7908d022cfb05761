package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prensprays-byte/library-inventory-system/api/responses"
	"github.com/prensprays-byte/library-inventory-system/api/validators"
	"github.com/prensprays-byte/library-inventory-system/internal/books"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
)

// PublicListBooks searches and pages the catalog without authentication.
func PublicListBooks(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		query := books.ListQuery{
			Query:  r.URL.Query().Get("q"),
			Author: r.URL.Query().Get("author"),
			Page:   validators.QueryInt(r, "page", 1),
			Limit:  validators.QueryInt(r, "limit", 0),
		}

		items, err := svc.ListPublic(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nonNilBooks(items))
	}
}

// PublicGetBook fetches one record by id without authentication.
func PublicGetBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
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

// PurchaseBook takes one copy off the shelf for any authenticated user.
func PurchaseBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		result, err := svc.Purchase(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// nonNilBooks keeps empty listings serializing as [] rather than null.
func nonNilBooks(items []*store.Book) []*store.Book {
	if items == nil {
		return []*store.Book{}
	}
	return items
}
