package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParsesInstantAnswer(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"AbstractText": "Mortgage affordability rules require lenders to assess income.",
			"RelatedTopics": [
				{"Text": "FCA mortgage conduct rules"},
				{"Text": ""},
				{"Text": "Responsible lending guidance"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewDuckDuckGoClient(DuckDuckGoWithEndpoint(srv.URL))
	snippets, err := client.Search(context.Background(), "mortgage affordability")

	require.NoError(t, err)
	require.Len(t, snippets, 3)
	assert.Equal(t, "Mortgage affordability rules require lenders to assess income.", snippets[0])
	assert.Equal(t, "FCA mortgage conduct rules", snippets[1])
	assert.Equal(t, "mortgage affordability", gotQuery)
}

func TestSearchRespectsTopK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"AbstractText": "first",
			"RelatedTopics": [{"Text": "second"}, {"Text": "third"}, {"Text": "fourth"}]
		}`))
	}))
	defer srv.Close()

	client := NewDuckDuckGoClient(
		DuckDuckGoWithEndpoint(srv.URL),
		DuckDuckGoWithTopK(2),
	)
	snippets, err := client.Search(context.Background(), "query")

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, snippets)
}

func TestSearchEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	client := NewDuckDuckGoClient(DuckDuckGoWithEndpoint(srv.URL))
	snippets, err := client.Search(context.Background(), "query")

	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewDuckDuckGoClient(DuckDuckGoWithEndpoint(srv.URL))
	_, err := client.Search(context.Background(), "query")

	assert.ErrorContains(t, err, "500")
}
