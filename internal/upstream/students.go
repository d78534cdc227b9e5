package upstream

import (
	"context"
	"fmt"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// ListStudents returns the student roster for the stand dashboard.
func (c *Client) ListStudents(ctx context.Context, token string) ([]RawRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to list students")
	}
	decoded, err := c.get(ctx, token, "getsiswa")
	if err != nil {
		return nil, err
	}
	return UnwrapList(decoded), nil
}

// CreateStudent adds a student record; profile fields pass through as-is.
func (c *Client) CreateStudent(ctx context.Context, token string, profile map[string]string) (any, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to create student")
	}
	return c.postForm(ctx, token, "tambah_siswa", profile)
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, token string, studentID int) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to delete student")
	}
	_, err := c.delete(ctx, token, fmt.Sprintf("hapus_siswa/%d", studentID))
	return err
}
