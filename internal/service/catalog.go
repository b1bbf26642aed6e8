package service

import (
	"context"
	"strings"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
)

const maxWorkshopCapacity = 100_000

// CatalogService exposes catalog reads and the admin catalog and pricing edits.
type CatalogService struct {
	store *repository.Store
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(store *repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// Exhibitions returns every exhibition.
func (s *CatalogService) Exhibitions() []model.Exhibition {
	return s.store.Exhibitions()
}

// Workshops returns every workshop with its current booking count.
func (s *CatalogService) Workshops() []model.Workshop {
	return s.store.Workshops()
}

// Pricing returns the current price list.
func (s *CatalogService) Pricing() model.Pricing {
	return s.store.Pricing()
}

// AddExhibition validates and adds an exhibition.
func (s *CatalogService) AddExhibition(ctx context.Context, sess model.Session, req model.CreateExhibitionRequest) (model.Exhibition, error) {
	if err := requireAdmin(sess); err != nil {
		return model.Exhibition{}, err
	}
	e := model.Exhibition{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if e.Name == "" || e.Description == "" {
		return model.Exhibition{}, invalid("exhibition", "name and description are required")
	}
	if err := s.store.AddExhibition(ctx, e); err != nil {
		return model.Exhibition{}, err
	}
	return e, nil
}

// UpdateExhibition renames or redescribes an exhibition.
func (s *CatalogService) UpdateExhibition(ctx context.Context, sess model.Session, name string, req model.UpdateExhibitionRequest) (model.Exhibition, error) {
	if err := requireAdmin(sess); err != nil {
		return model.Exhibition{}, err
	}
	e := model.Exhibition{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if e.Name == "" || e.Description == "" {
		return model.Exhibition{}, invalid("exhibition", "name and description are required")
	}
	return s.store.UpdateExhibition(ctx, name, e)
}

// RemoveExhibition deletes an exhibition no ticket refers to.
func (s *CatalogService) RemoveExhibition(ctx context.Context, sess model.Session, name string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.store.RemoveExhibition(ctx, name)
}

// AddWorkshop validates and adds a workshop.
func (s *CatalogService) AddWorkshop(ctx context.Context, sess model.Session, req model.CreateWorkshopRequest) (model.Workshop, error) {
	if err := requireAdmin(sess); err != nil {
		return model.Workshop{}, err
	}
	w := model.Workshop{
		Title:          strings.TrimSpace(req.Title),
		Time:           strings.TrimSpace(req.Time),
		Capacity:       req.Capacity,
		ExhibitionName: strings.TrimSpace(req.ExhibitionName),
	}
	if w.Title == "" || w.Time == "" || w.ExhibitionName == "" {
		return model.Workshop{}, invalid("workshop", "title, time and exhibition are required")
	}
	if w.Capacity < 0 {
		return model.Workshop{}, invalid("capacity", "cannot be negative")
	}
	if w.Capacity > maxWorkshopCapacity {
		return model.Workshop{}, invalid("capacity", "cannot exceed 100,000")
	}
	return s.store.AddWorkshop(ctx, w)
}

// RemoveWorkshop deletes a workshop nobody has reserved.
func (s *CatalogService) RemoveWorkshop(ctx context.Context, sess model.Session, id int) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.store.RemoveWorkshop(ctx, id)
}

// UpdatePricing sets any of the three prices. Negative prices are rejected.
func (s *CatalogService) UpdatePricing(ctx context.Context, sess model.Session, upd model.PricingUpdate) (model.Pricing, error) {
	if err := requireAdmin(sess); err != nil {
		return model.Pricing{}, err
	}
	if upd.Standard == nil && upd.AllAccess == nil && upd.AddExhibition == nil {
		return model.Pricing{}, invalid("pricing", "no changes entered")
	}
	for field, p := range map[string]*model.Money{
		"price_standard":              upd.Standard,
		"price_all_access":            upd.AllAccess,
		"upgrade_add_exhibition_cost": upd.AddExhibition,
	} {
		if p != nil && *p < 0 {
			return model.Pricing{}, invalid(field, "price cannot be negative")
		}
	}
	return s.store.UpdatePricing(ctx, upd)
}

// SetPriceStandard sets the standard pass price.
func (s *CatalogService) SetPriceStandard(ctx context.Context, sess model.Session, p model.Money) (model.Pricing, error) {
	return s.UpdatePricing(ctx, sess, model.PricingUpdate{Standard: &p})
}

// SetPriceAllAccess sets the all-access pass price.
func (s *CatalogService) SetPriceAllAccess(ctx context.Context, sess model.Session, p model.Money) (model.Pricing, error) {
	return s.UpdatePricing(ctx, sess, model.PricingUpdate{AllAccess: &p})
}

// SetUpgradeAddExhibitionCost sets the cost of adding one exhibition to a pass.
func (s *CatalogService) SetUpgradeAddExhibitionCost(ctx context.Context, sess model.Session, p model.Money) (model.Pricing, error) {
	return s.UpdatePricing(ctx, sess, model.PricingUpdate{AddExhibition: &p})
}
