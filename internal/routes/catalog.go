package routes

import (
	"layer-comparator/internal/catalog"
	"net/http"
)

func ListContexts(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(c.Contexts(r.Context())))
	}
}

func ListVersions(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(c.Versions(r.Context(), r.PathValue("context"))))
	}
}

func ListVariants(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nonNil(c.Variants(r.Context(), r.PathValue("context"), r.PathValue("version"))))
	}
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
