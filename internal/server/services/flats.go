// Package services implements the application logic of the visitor
// management server: the flat directory, resident identity, the visitor
// request lifecycle, photo storage, reporting and retention.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/flats"
)

// FlatService reads the flat directory.
type FlatService struct {
	repo flats.Repository
}

func NewFlatService(repo flats.Repository) *FlatService {
	return &FlatService{repo: repo}
}

func (s *FlatService) List(ctx context.Context) ([]models.Flat, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing flats: %w", err)
	}
	return result, nil
}

// ResolveCode maps a human-entered code like "B203" to a directory entry.
// A malformed code is a validation error; a well-formed code with no
// matching flat is not found.
func (s *FlatService) ResolveCode(ctx context.Context, code string) (*models.Flat, error) {
	wing, number, err := models.ParseFlatCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	flat, err := s.repo.GetByCode(ctx, wing, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("resolving flat code: %w", err)
	}
	return flat, nil
}

func (s *FlatService) GetByID(ctx context.Context, id string) (*models.Flat, error) {
	flat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("getting flat: %w", err)
	}
	return flat, nil
}
