// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile manages the public profile attached to every account.

A profile shares its id with the account. Only the account itself may create
or change it; anyone may read it.
*/
package profile

import "time"

// Profile is the public face of an account.
type Profile struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	Phone     *string   `json:"phone"`
	Website   *string   `json:"website"`
	Location  *string   `json:"location"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields holds editable profile fields; nil fields are left alone on update
// and stored as null on create.
type Fields struct {
	FullName  *string `json:"full_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Website   *string `json:"website,omitempty"`
	Location  *string `json:"location,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Draft is the insert payload.
type Draft struct {
	ID string `json:"id"`
	Fields
}

const (
	MessageNotFound      = "프로필을 찾을 수 없습니다"
	MessageNotOwner      = "본인의 프로필만 수정할 수 있습니다"
	MessageAlreadyExists = "프로필이 이미 존재합니다"
	MessageNothingToEdit = "수정할 내용이 없습니다"
)

const (
	FieldFullName  = "full_name"
	FieldBio       = "bio"
	FieldPhone     = "phone"
	FieldWebsite   = "website"
	FieldLocation  = "location"
	FieldAvatarURL = "avatar_url"
)
