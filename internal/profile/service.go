package profile

import (
	"context"
	"mime/multipart"
)

type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*Profile, error)

	GetPreference(ctx context.Context, userID int64) (*Preference, error)
	UpdatePreference(ctx context.Context, userID int64, dto *UpdatePreferenceDTO) (*Preference, error)

	GetHoroscope(ctx context.Context, userID int64) (*Horoscope, error)
	UpdateHoroscope(ctx context.Context, userID int64, dto *UpdateHoroscopeDTO) (*Horoscope, error)

	UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader, isPrimary bool) (*Photo, error)
	ListPhotos(ctx context.Context, userID int64) ([]*Photo, error)
}

type service struct {
	repo     Repository
	uploader UploadService
}

func NewService(repo Repository, uploader UploadService) Service {
	return &service{repo: repo, uploader: uploader}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*Profile, error) {
	p := dto.toProfile(userID)

	// Approved photo count feeds completion, so fetch the existing
	// profile first when there is one.
	if existing, err := s.repo.GetProfile(ctx, userID); err == nil {
		p.ApprovedPhotoCount = existing.ApprovedPhotoCount
	}
	p.CompletionScore = p.ComputeCompletion()

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.GetProfile(ctx, userID)
}

func (s *service) GetPreference(ctx context.Context, userID int64) (*Preference, error) {
	return s.repo.GetPreference(ctx, userID)
}

func (s *service) UpdatePreference(ctx context.Context, userID int64, dto *UpdatePreferenceDTO) (*Preference, error) {
	pref := dto.toPreference(userID)
	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *service) GetHoroscope(ctx context.Context, userID int64) (*Horoscope, error) {
	return s.repo.GetHoroscope(ctx, userID)
}

func (s *service) UpdateHoroscope(ctx context.Context, userID int64, dto *UpdateHoroscopeDTO) (*Horoscope, error) {
	h := dto.toHoroscope(userID)
	if err := s.repo.UpsertHoroscope(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) UploadPhoto(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader, isPrimary bool) (*Photo, error) {
	url, err := s.uploader.UploadFile(ctx, file, header, "profile-photos")
	if err != nil {
		return nil, err
	}

	photo := &Photo{
		UserID:    userID,
		URL:       url,
		IsPrimary: isPrimary,
	}

	if err := s.repo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}

	return photo, nil
}

func (s *service) ListPhotos(ctx context.Context, userID int64) ([]*Photo, error) {
	return s.repo.ListPhotos(ctx, userID)
}
