package service

import "errors"

var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidEncoding        = errors.New("file must be UTF-8 encoded text")
	ErrMalformedCSV           = errors.New("malformed CSV")
	ErrInvalidOrganization    = errors.New("invalid organization")
	ErrInvalidRecommendation  = errors.New("invalid recommendation")
)
