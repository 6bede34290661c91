package api

import (
	"net/http"
	"strconv"
)

const (
	maxPerPage = 100
	maxPage    = 1_000_000
)

// pagination reads page and per_page; missing, non-numeric or non-positive values fall back to defaults.
func pagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = positiveInt(r.URL.Query().Get("page"), 1)
	perPage = positiveInt(r.URL.Query().Get("per_page"), defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if page > maxPage {
		page = maxPage
	}
	return page, perPage
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
