// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/diary/internal/platform/apperr"
	"github.com/taibuivan/diary/internal/platform/constants"
	"github.com/taibuivan/diary/internal/platform/ctxutil"
	"github.com/taibuivan/diary/internal/platform/dberr"
	"github.com/taibuivan/diary/internal/platform/validate"
	"github.com/taibuivan/diary/pkg/pagination"
)

// Service implements the profile use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Reads

// GetProfile returns the profile with the given id.
func (service *Service) GetProfile(context context.Context, id string) (*Profile, error) {
	profile, err := service.repo.GetProfile(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	return profile, nil
}

// GetCurrentProfile returns the signed-in identity's own profile.
func (service *Service) GetCurrentProfile(context context.Context) (*Profile, error) {
	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return nil, apperr.AuthRequired(constants.MessageLoginRequired)
	}
	return service.GetProfile(context, viewer.UserID())
}

/*
GetAllProfiles returns one page of profiles, newest first.

Parameters:
  - context: context.Context
  - page: pagination.Params

Returns:
  - []*Profile: The page
  - pagination.Meta: Page metadata with the total count
  - error: Classified platform error
*/
func (service *Service) GetAllProfiles(context context.Context, page pagination.Params) ([]*Profile, pagination.Meta, error) {
	from, to := page.Window()
	profiles, total, err := service.repo.ListProfiles(context, from, to)
	if err != nil {
		return nil, pagination.Meta{}, dberr.Wrap(err, MessageNotFound)
	}
	return profiles, pagination.NewMeta(page, total), nil
}

// SearchProfiles matches term against name and bio, case-insensitively, newest first.
func (service *Service) SearchProfiles(context context.Context, term string) ([]*Profile, error) {
	profiles, err := service.repo.Search(context, strings.TrimSpace(term))
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	return profiles, nil
}

// # Writes

/*
CreateProfile stores the profile of the signed-in identity.

Description: Accounts created with the sign-up trigger already have one; a
second profile for the same id is a CONFLICT.

Parameters:
  - context: context.Context
  - id: string (Must be the caller's own id)
  - fields: Fields

Returns:
  - *Profile: The stored row
  - error: VALIDATION_ERROR, AUTH_REQUIRED, FORBIDDEN, CONFLICT
*/
func (service *Service) CreateProfile(context context.Context, id string, fields Fields) (*Profile, error) {
	fields = normalize(fields)
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if err := service.authorize(context, id); err != nil {
		return nil, err
	}

	created, err := service.repo.CreateProfile(context, Draft{ID: id, Fields: fields})
	if err != nil {
		appErr := dberr.Wrap(err, MessageNotFound)
		if apperr.HasCode(appErr, apperr.CodeConflict) {
			return nil, apperr.Conflict(MessageAlreadyExists).WithCause(err)
		}
		return nil, appErr
	}

	service.logger.InfoContext(context, "profile_created", slog.String("user_id", id))
	return created, nil
}

/*
UpdateProfile changes the given fields of the caller's own profile.

Returns:
  - *Profile: The updated row
  - error: VALIDATION_ERROR, AUTH_REQUIRED, FORBIDDEN, NOT_FOUND (no profile yet)
*/
func (service *Service) UpdateProfile(context context.Context, id string, fields Fields) (*Profile, error) {
	fields = normalize(fields)
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	patch := fields.patch()
	if len(patch) == 0 {
		return nil, apperr.ValidationError(MessageNothingToEdit)
	}

	if err := service.authorize(context, id); err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdateProfile(context, id, patch)
	if err != nil {
		return nil, dberr.Wrap(err, MessageNotFound)
	}
	if updated == nil {
		return nil, apperr.NotFoundMessage(MessageNotFound)
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("user_id", id))
	return updated, nil
}

// # Internals

func (service *Service) authorize(context context.Context, id string) error {
	viewer := ctxutil.CurrentSession(context)
	if viewer == nil {
		return apperr.AuthRequired(constants.MessageLoginRequired)
	}
	if viewer.UserID() != id {
		return apperr.Forbidden(MessageNotOwner)
	}
	return nil
}

// patch lists the set fields by column; a blank value clears the column.
func (f Fields) patch() map[string]any {
	patch := map[string]any{}
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			patch[column] = nil
			return
		}
		patch[column] = *value
	}

	set(FieldFullName, f.FullName)
	set(FieldBio, f.Bio)
	set(FieldPhone, f.Phone)
	set(FieldWebsite, f.Website)
	set(FieldLocation, f.Location)
	set(FieldAvatarURL, f.AvatarURL)
	return patch
}

func normalize(f Fields) Fields {
	trim := func(value *string) *string {
		if value == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*value)
		return &trimmed
	}
	return Fields{
		FullName:  trim(f.FullName),
		Bio:       trim(f.Bio),
		Phone:     trim(f.Phone),
		Website:   trim(f.Website),
		Location:  trim(f.Location),
		AvatarURL: trim(f.AvatarURL),
	}
}

func validateFields(f Fields) error {
	validator := &validate.Validator{}
	check := func(field string, value *string, max int) {
		if value != nil {
			validator.MaxLen(field, *value, max)
		}
	}

	check(FieldFullName, f.FullName, 100)
	check(FieldBio, f.Bio, 500)
	check(FieldPhone, f.Phone, 30)
	check(FieldWebsite, f.Website, 200)
	check(FieldLocation, f.Location, 100)
	check(FieldAvatarURL, f.AvatarURL, 500)
	return validator.Err()
}
