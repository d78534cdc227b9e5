package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type catalogService interface {
	FetchAll(ctx context.Context, token string) (*menu.Catalog, error)
}

type menuWriter interface {
	CreateMenu(ctx context.Context, token string, input upstream.MenuInput) (any, error)
	UpdateMenu(ctx context.Context, token string, menuID int, input upstream.MenuInput) (any, error)
	DeleteMenu(ctx context.Context, token string, menuID int) error
}

type menuMutationRequest struct {
	Name        string `json:"nama_makanan" validate:"required"`
	Kind        string `json:"jenis" validate:"required,oneof=makanan minuman"`
	Price       string `json:"harga" validate:"required"`
	Description string `json:"deskripsi"`
	Photo       string `json:"foto"`
}

func (m menuMutationRequest) input() upstream.MenuInput {
	return upstream.MenuInput{
		Name:        m.Name,
		Kind:        m.Kind,
		Price:       m.Price,
		Description: m.Description,
		Photo:       m.Photo,
	}
}

// MenuList serves the merged food+drink catalog, optionally filtered by
// ?search= (name substring) and ?category= (makanan/minuman). A partly failed
// fetch still serves whatever category loaded.
func MenuList(catalog catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionFromContext(r.Context())
		merged, _ := catalog.FetchAll(r.Context(), session.UpstreamToken)
		responses.WriteSuccess(w, filterEntries(merged.Entries(),
			r.URL.Query().Get("search"), r.URL.Query().Get("category")))
	}
}

func filterEntries(entries []menu.Entry, search, category string) []menu.Entry {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.ToLower(strings.TrimSpace(category))
	if search == "" && category == "" {
		return entries
	}
	out := make([]menu.Entry, 0, len(entries))
	for _, entry := range entries {
		if search != "" && !strings.Contains(strings.ToLower(entry.Name), search) {
			continue
		}
		if category != "" && !strings.EqualFold(upstream.String(entry.Raw["jenis"]), category) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func MenuCreate(client menuWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req menuMutationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		ack, err := client.CreateMenu(r.Context(), session.UpstreamToken, req.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ack)
	}
}

func MenuUpdate(client menuWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := validators.IntParam("menuId", chi.URLParam(r, "menuId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req menuMutationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		ack, err := client.UpdateMenu(r.Context(), session.UpstreamToken, menuID, req.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ack)
	}
}

func MenuDelete(client menuWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := validators.IntParam("menuId", chi.URLParam(r, "menuId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		if err := client.DeleteMenu(r.Context(), session.UpstreamToken, menuID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// lookupEntry finds a catalog entry by id or reports not-found in taxonomy
// terms. Shared with the cart controller.
func lookupEntry(ctx context.Context, catalog catalogService, token string, menuID int) (menu.Entry, error) {
	merged, _ := catalog.FetchAll(ctx, token)
	entry, ok := merged.Lookup(menuID)
	if !ok {
		return menu.Entry{}, pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
	}
	return entry, nil
}
