package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPostalCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/01310100/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL)
	addr, err := client.LookupPostalCode(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookupPostalCode_RejectsMalformedCEP(t *testing.T) {
	client := NewClient()

	_, err := client.LookupPostalCode(context.Background(), "123")
	assert.Error(t, err)

	_, err = client.LookupPostalCode(context.Background(), "abcdefgh")
	assert.Error(t, err)
}

func TestLookupPostalCode_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL)
	_, err := client.LookupPostalCode(context.Background(), "99999999")
	assert.Error(t, err)
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "-23.561414", r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Avenida Paulista, São Paulo","address":{"road":"Avenida Paulista","town":"São Paulo","state":"São Paulo","postcode":"01310-100"}}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL)
	addr, err := client.ReverseGeocode(context.Background(), -23.561414, -46.655881)
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "Avenida Paulista, São Paulo", addr.DisplayName)
}

func TestReverseGeocode_ServerErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClientWithEndpoints(srv.URL, srv.URL)
	_, err := client.ReverseGeocode(context.Background(), -23.5, -46.6)
	assert.Error(t, err)
}
