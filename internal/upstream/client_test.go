package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kantinapp/kantin-gateway/pkg/config"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.UpstreamConfig{
		BaseURL: server.URL + "/api/",
		MakerID: "1",
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client, server
}

func TestListOrdersSendsTenantAndBearerHeaders(t *testing.T) {
	var gotMaker, gotAuth, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMaker = r.Header.Get("makerID")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"data":[{"id_order":1}]}`))
	}))

	orders, err := client.ListOrders(context.Background(), "tok-123", "belum dikonfirm")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, "1", gotMaker)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/showorder/belum%20dikonfirm", gotPath)
}

func TestListOrdersWithoutTokenIsAuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach upstream without a token")
	}))

	_, err := client.ListOrders(context.Background(), "", "dimasak")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRemoteErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "json message field", status: 400, body: `{"message":"stok habis"}`, wantMsg: "stok habis"},
		{name: "json msg field", status: 400, body: `{"msg":"token salah"}`, wantMsg: "token salah"},
		{name: "raw body fallback", status: 500, body: "server blew up", wantMsg: "server blew up"},
		{name: "status fallback", status: 503, body: "", wantMsg: "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.ListOrders(context.Background(), "tok", "dimasak")
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
			assert.Equal(t, tt.wantMsg, typed.Message())

			dump := pkgerrors.Dump(err)
			assert.Equal(t, tt.status, dump.UpstreamStatus)
		})
	}
}

func TestFetchMenusPostsSearchForm(t *testing.T) {
	var gotSearch, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotSearch = r.FormValue("search")
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id_menu":3,"nama_makanan":"Nasi Goreng","harga":12000}]`))
	}))

	menus, err := client.FetchMenus(context.Background(), "tok", CategoryFood, "")
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, 3, menus[0].MenuID())
	assert.Equal(t, "", gotSearch)
	assert.Equal(t, "/api/getmenufood", gotPath)
}

func TestGarbageBodyNormalizesToEmptyList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance page</html>"))
	}))

	orders, err := client.ListOrders(context.Background(), "tok", "sampai")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestLoginExtractsNestedToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "budi", r.FormValue("username"))
		assert.Equal(t, "/api/login_siswa", r.URL.Path)
		w.Write([]byte(`{"data":{"access_token":"jwt-abc","nama_siswa":"Budi"}}`))
	}))

	result, err := client.Login(context.Background(), RoleStudent, "budi", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", result.Token)
}

func TestLoginWithoutTokenInPayloadFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok tapi tanpa token"}`))
	}))

	_, err := client.Login(context.Background(), RoleStand, "stan", "pw")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestUpdateOrderStatusUsesPutForm(t *testing.T) {
	var gotMethod, gotStatus, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, r.ParseForm())
		gotStatus = r.FormValue("status")
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"updated"}`))
	}))

	_, err := client.UpdateOrderStatus(context.Background(), "tok", 42, "dimasak")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "dimasak", gotStatus)
	assert.Equal(t, "/api/updatestatus/42", gotPath)
}

func TestSubmitOrderRejectsEmptyLines(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("empty order must not reach upstream")
	}))

	_, err := client.SubmitOrder(context.Background(), "tok", nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
