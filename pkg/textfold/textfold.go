// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textfold compares user text case-insensitively.
//
// # Usage
//
// Search terms typed by users and diary text loaded from the platform may use
// different Unicode normal forms (composed vs. decomposed Hangul, accented
// Latin). Both sides are normalized before comparing.
package textfold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the canonical comparison form of s.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes "ㅎ+ㅏ+ㄴ" into "한", e + combining acute into é).
// 2. Applies Unicode case folding (full folding, so "ß" matches "ss").
func Fold(s string) string {
	folder := cases.Fold()
	return folder.String(norm.NFC.String(s))
}

// ContainsAny reports whether needle occurs in any of the values.
func ContainsAny(needle string, values ...string) bool {
	folded := Fold(needle)
	for _, value := range values {
		if strings.Contains(Fold(value), folded) {
			return true
		}
	}
	return folded == ""
}
