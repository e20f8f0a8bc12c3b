package services

import (
	"context"
	"errors"
	"fmt"

	"gatherly/internal/domain"
)

type categoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a CategoryService backed by the given repository.
func NewCategoryService(categoryRepo domain.CategoryRepository) domain.CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryInUse) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
