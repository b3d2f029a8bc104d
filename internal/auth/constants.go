// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Request Fields

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
)
