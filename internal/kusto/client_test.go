package kusto_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/kusto"
)

type recordedRequest struct {
	Path   string
	DB     string
	CSL    string
	Auth   string
	Accept string
}

func newServer(t *testing.T, status int, body string, requests *[]recordedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			DB  string `json:"db"`
			CSL string `json:"csl"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		*requests = append(*requests, recordedRequest{
			Path:   r.URL.Path,
			DB:     payload.DB,
			CSL:    payload.CSL,
			Auth:   r.Header.Get("Authorization"),
			Accept: r.Header.Get("Accept"),
		})

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

const schemaResponse = `{
  "Tables": [{
    "TableName": "Table_0",
    "Columns": [
      {"ColumnName": "TableName", "DataType": "String"},
      {"ColumnName": "ColumnName", "DataType": "String"},
      {"ColumnName": "ColumnType", "DataType": "String"}
    ],
    "Rows": [
      ["Events", "Id", "System.Int64"],
      ["Events", "Name", "System.String"],
      ["Empty", null, null]
    ]
  }]
}`

func TestClientMgmt(t *testing.T) {
	var requests []recordedRequest
	srv := newServer(t, http.StatusOK, schemaResponse, &requests)

	client, err := kusto.NewClient(context.Background(), srv.URL+"/", kusto.Credentials{Token: "tok"})
	require.NoError(t, err)
	require.Equal(t, srv.URL, client.Endpoint())

	res, err := client.Mgmt(context.Background(), "Telemetry", ".show schema")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	require.Equal(t, "/v1/rest/mgmt", requests[0].Path)
	require.Equal(t, "Telemetry", requests[0].DB)
	require.Equal(t, ".show schema", requests[0].CSL)
	require.Equal(t, "Bearer tok", requests[0].Auth)
	require.Equal(t, "application/json", requests[0].Accept)

	require.Equal(t, []string{"TableName", "ColumnName", "ColumnType"}, res.Columns)
	require.Equal(t, 3, res.Len())
	require.Equal(t, "Events", res.String(0, "TableName"))
	require.Equal(t, "System.Int64", res.String(0, "ColumnType"))
	require.Equal(t, "", res.String(2, "ColumnName"))
	require.Equal(t, "", res.String(0, "Missing"))
	require.Equal(t, "", res.String(9, "TableName"))
	require.NoError(t, res.Require("TableName", "ColumnName"))
	require.Error(t, res.Require("DatabaseName"))
}

func TestClientQuery(t *testing.T) {
	var requests []recordedRequest
	srv := newServer(t, http.StatusOK, `{"Tables":[{"Columns":[{"ColumnName":"ColumnName"}],"Rows":[]}]}`, &requests)

	client, err := kusto.NewClient(context.Background(), srv.URL, kusto.Credentials{})
	require.NoError(t, err)

	res, err := client.Query(context.Background(), "Telemetry", "Fn() | take 1 | getschema")
	require.NoError(t, err)
	require.Equal(t, 0, res.Len())
	require.Equal(t, "/v1/rest/query", requests[0].Path)
	require.Empty(t, requests[0].Auth)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "kusto error payload",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":"BadRequest","message":"Semantic error: 'Fn' not found"}}`,
			wantErr: "status 400: Semantic error",
		},
		{
			name:    "plain error body",
			status:  http.StatusServiceUnavailable,
			body:    strings.Repeat("x", 2000),
			wantErr: "status 503",
		},
		{
			name:    "invalid JSON",
			status:  http.StatusOK,
			body:    `{"Tables": [`,
			wantErr: "not valid JSON",
		},
		{
			name:    "no tables",
			status:  http.StatusOK,
			body:    `{"Tables": []}`,
			wantErr: "no result table",
		},
		{
			name:    "rows not an array",
			status:  http.StatusOK,
			body:    `{"Tables": [{"Columns": [], "Rows": {}}]}`,
			wantErr: "no rows array",
		},
		{
			name:    "row not an array",
			status:  http.StatusOK,
			body:    `{"Tables": [{"Columns": [], "Rows": [1]}]}`,
			wantErr: "row is not an array",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var requests []recordedRequest
			srv := newServer(t, tc.status, tc.body, &requests)

			client := kusto.NewClientWithHTTP(srv.URL, srv.Client())
			_, err := client.Mgmt(context.Background(), "db", ".show functions")
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewClientValidation(t *testing.T) {
	_, err := kusto.NewClient(context.Background(), "", kusto.Credentials{})
	require.Error(t, err)

	_, err = kusto.NewClient(context.Background(), "https://example.kusto.windows.net", kusto.Credentials{ClientID: "id"})
	require.ErrorContains(t, err, "tenant id")

	client, err := kusto.NewClient(context.Background(), "https://example.kusto.windows.net", kusto.Credentials{TenantID: "t", ClientID: "id", ClientSecret: "s"})
	require.NoError(t, err)
	require.NotNil(t, client)
}
