// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination turns ?page=&limit= into the inclusive row range the
// remote platform's Range header expects, and back into response metadata.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps the row window far from integer overflow.
	MaxPage = 1_000_000
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Window returns the inclusive row range [from, to] the page covers.
func (p Params) Window() (from, to int) {
	if p.Page > 1 {
		from = (p.Page - 1) * p.Limit
	}
	return from, from + p.Limit - 1
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds the metadata for a page of a result set of total rows.
func NewMeta(params Params, total int) Meta {
	meta := Meta{Page: params.Page, Limit: params.Limit, Total: total}
	if params.Limit > 0 {
		meta.TotalPages = (total + params.Limit - 1) / params.Limit
	}
	return meta
}

// FromRequest reads "page" and "limit". Missing or malformed values fall
// back to the defaults; values above [MaxPage] and [MaxLimit] are capped.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	params := Params{
		Page:  intOr(query.Get("page"), DefaultPage),
		Limit: intOr(query.Get("limit"), DefaultLimit),
	}

	switch {
	case params.Page < 1:
		params.Page = DefaultPage
	case params.Page > MaxPage:
		params.Page = MaxPage
	}
	switch {
	case params.Limit < 1:
		params.Limit = DefaultLimit
	case params.Limit > MaxLimit:
		params.Limit = MaxLimit
	}
	return params
}

func intOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
