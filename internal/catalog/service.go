package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
)

// Service exposes the public reference-data reads.
type Service interface {
	Packages(ctx context.Context) ([]models.Package, error)
	PackageByID(ctx context.Context, id int64) (*models.Package, error)
	Fruits(ctx context.Context) ([]models.Fruit, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Packages(ctx context.Context) ([]models.Package, error) {
	packages, err := s.repo.ListActivePackages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list packages")
	}
	return packages, nil
}

func (s *service) PackageByID(ctx context.Context, id int64) (*models.Package, error) {
	pkg, err := s.repo.FindActivePackage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load package")
	}
	return pkg, nil
}

func (s *service) Fruits(ctx context.Context) ([]models.Fruit, error) {
	fruits, err := s.repo.ListAvailableFruits(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fruits")
	}
	return fruits, nil
}
