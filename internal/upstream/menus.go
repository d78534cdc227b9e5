package upstream

import (
	"context"
	"fmt"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// MenuCategory distinguishes the two upstream catalog endpoints.
type MenuCategory string

const (
	CategoryFood  MenuCategory = "food"
	CategoryDrink MenuCategory = "drink"
)

var menuPaths = map[MenuCategory]string{
	CategoryFood:  "getmenufood",
	CategoryDrink: "getmenudrink",
}

// FetchMenus lists one menu category. The upstream expects a POST with a
// "search" form field; an empty search returns everything.
func (c *Client) FetchMenus(ctx context.Context, token string, category MenuCategory, search string) ([]RawRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to list menus")
	}
	path, ok := menuPaths[category]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown menu category")
	}
	decoded, err := c.postForm(ctx, token, path, map[string]string{"search": search})
	if err != nil {
		return nil, err
	}
	return UnwrapList(decoded), nil
}

// MenuInput carries the fields the upstream menu mutations accept.
type MenuInput struct {
	Name        string
	Kind        string // "makanan" or "minuman"
	Price       string
	Description string
	Photo       string
}

func (m MenuInput) fields() map[string]string {
	return map[string]string{
		"nama_makanan": m.Name,
		"jenis":        m.Kind,
		"harga":        m.Price,
		"deskripsi":    m.Description,
		"foto":         m.Photo,
	}
}

// CreateMenu adds a menu item to the calling stand's catalog.
func (c *Client) CreateMenu(ctx context.Context, token string, input MenuInput) (any, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to create menu")
	}
	return c.postForm(ctx, token, "tambahmenu", input.fields())
}

// UpdateMenu replaces a menu item's fields.
func (c *Client) UpdateMenu(ctx context.Context, token string, menuID int, input MenuInput) (any, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to update menu")
	}
	return c.postForm(ctx, token, fmt.Sprintf("updatemenu/%d", menuID), input.fields())
}

// DeleteMenu removes a menu item.
func (c *Client) DeleteMenu(ctx context.Context, token string, menuID int) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to delete menu")
	}
	_, err := c.delete(ctx, token, fmt.Sprintf("hapus_menu/%d", menuID))
	return err
}
