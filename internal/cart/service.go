package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexim39/marketspase-engine/pkg/derive"
	"github.com/alexim39/marketspase-engine/pkg/enums"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
	"github.com/alexim39/marketspase-engine/pkg/metrics"
	"github.com/alexim39/marketspase-engine/pkg/notify"
	"github.com/alexim39/marketspase-engine/pkg/storage"
	"go.uber.org/multierr"
)

// ServiceParams groups dependencies for the cart engine.
type ServiceParams struct {
	Store    storage.Store
	Logger   *logger.Logger
	Notifier notify.Sink
	Metrics  *metrics.EngineMetrics
}

// Service owns the cart lines, the active discount and the shipping address.
// It is the only writer; the UI holds read-only projections.
type Service struct {
	store    storage.Store
	logg     *logger.Logger
	notifier notify.Sink
	metrics  *metrics.EngineMetrics

	items    []Item
	discount *Discount
	address  *Address

	src     *derive.Source
	summary *derive.Cell[Summary]
	groups  *derive.Cell[[]StoreGroup]
}

// NewService builds the cart engine and seeds it from the durable store.
// Malformed or missing persisted state is treated as an empty cart.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "durable store is required")
	}
	s := &Service{
		store:    params.Store,
		logg:     params.Logger,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		src:      derive.NewSource(),
	}
	s.summary = derive.NewCell(func() Summary {
		s.metrics.IncRecompute("cart_summary")
		return computeSummary(s.items, s.discount)
	}, s.src)
	s.groups = derive.NewCell(func() []StoreGroup {
		s.metrics.IncRecompute("cart_groups")
		return groupByStore(s.items)
	}, s.src)
	s.load(ctx)
	return s, nil
}

// AddItem inserts a new line or merges quantities on an existing composite
// key. A merge that would exceed the stock ceiling is rejected and leaves the
// cart unchanged.
func (s *Service) AddItem(ctx context.Context, item Item) error {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if item.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	key := item.Key()
	for i := range s.items {
		if s.items[i].Key() != key {
			continue
		}
		merged := s.items[i].Quantity + quantity
		if ceiling := s.items[i].MaxQuantity; ceiling != nil && merged > *ceiling {
			return s.rejectQuantity(ctx, s.items[i].Name, *ceiling)
		}
		s.items[i].Quantity = merged
		s.commit(ctx, "add_item")
		return nil
	}

	if ceiling := item.MaxQuantity; ceiling != nil && quantity > *ceiling {
		return s.rejectQuantity(ctx, item.Name, *ceiling)
	}
	line := item
	line.Quantity = quantity
	s.items = append(s.items, line)
	s.commit(ctx, "add_item")
	return nil
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line;
// exceeding the stock ceiling is rejected with the line unchanged.
func (s *Service) SetQuantity(ctx context.Context, key LineKey, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, key)
	}
	for i := range s.items {
		if s.items[i].Key() != key {
			continue
		}
		if ceiling := s.items[i].MaxQuantity; ceiling != nil && quantity > *ceiling {
			return s.rejectQuantity(ctx, s.items[i].Name, *ceiling)
		}
		s.items[i].Quantity = quantity
		s.commit(ctx, "set_quantity")
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Increment raises the line quantity by one.
func (s *Service) Increment(ctx context.Context, key LineKey) error {
	item, ok := s.find(key)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.SetQuantity(ctx, key, item.Quantity+1)
}

// Decrement lowers the line quantity by one, removing the line at zero.
func (s *Service) Decrement(ctx context.Context, key LineKey) error {
	item, ok := s.find(key)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.SetQuantity(ctx, key, item.Quantity-1)
}

// RemoveItem drops the line if present.
func (s *Service) RemoveItem(ctx context.Context, key LineKey) error {
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.commit(ctx, "remove_item")
			return nil
		}
	}
	return nil
}

// Clear empties the cart and drops the active discount.
func (s *Service) Clear(ctx context.Context) {
	s.items = nil
	s.discount = nil
	s.commit(ctx, "clear")
	s.persistDiscount(ctx)
}

// ApplyDiscount validates the code against the static rule table and, on
// success, replaces the active discount and returns the rule description.
func (s *Service) ApplyDiscount(ctx context.Context, code string) (string, error) {
	rule, ok := discountRules[code]
	if !ok {
		s.metrics.IncRejection("cart", "invalid-code")
		s.toast(ctx, enums.SeverityError, "Invalid discount code")
		return "", pkgerrors.New(pkgerrors.CodeRejected, "discount code not recognized").
			WithDetails(map[string]any{"reason": "invalid-code", "code": code})
	}
	subtotal := s.Summary().Subtotal
	if rule.MinPurchase != nil && subtotal < *rule.MinPurchase {
		s.metrics.IncRejection("cart", "below-minimum")
		message := fmt.Sprintf("Add %.2f more to use this code", *rule.MinPurchase-subtotal)
		s.toast(ctx, enums.SeverityWarning, message)
		return "", pkgerrors.New(pkgerrors.CodeRejected, fmt.Sprintf("minimum purchase of %.2f required", *rule.MinPurchase)).
			WithDetails(map[string]any{"reason": "below-minimum", "minPurchase": *rule.MinPurchase})
	}

	s.discount = &Discount{
		Code:        code,
		Type:        rule.Type,
		Value:       rule.Value,
		MinPurchase: rule.MinPurchase,
	}
	s.commit(ctx, "apply_discount")
	s.persistDiscount(ctx)
	s.toast(ctx, enums.SeveritySuccess, rule.Description)
	return rule.Description, nil
}

// RemoveDiscount clears the active discount.
func (s *Service) RemoveDiscount(ctx context.Context) {
	s.discount = nil
	s.commit(ctx, "remove_discount")
	s.persistDiscount(ctx)
}

// SetShippingAddress stores the destination, last write wins.
func (s *Service) SetShippingAddress(ctx context.Context, address Address) {
	s.address = &address
	s.src.Bump()
	s.metrics.IncMutation("cart", "set_shipping_address")
	s.persistAddress(ctx)
}

// Items returns a copy of the current lines in insertion order.
func (s *Service) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Summary returns the memoized derived totals.
func (s *Service) Summary() Summary {
	return s.summary.Get()
}

// GroupedByStore returns lines grouped by store, preserving insertion order
// within and across groups.
func (s *Service) GroupedByStore() []StoreGroup {
	return s.groups.Get()
}

// ActiveDiscount returns a copy of the active discount, if any.
func (s *Service) ActiveDiscount() *Discount {
	if s.discount == nil {
		return nil
	}
	discount := *s.discount
	return &discount
}

// ShippingAddress returns a copy of the stored address, if any.
func (s *Service) ShippingAddress() *Address {
	if s.address == nil {
		return nil
	}
	address := *s.address
	return &address
}

// HasDigitalProducts reports whether any line is digital.
func (s *Service) HasDigitalProducts() bool {
	for _, item := range s.items {
		if item.IsDigital {
			return true
		}
	}
	return false
}

// HasPhysicalProducts reports whether any line needs shipping.
func (s *Service) HasPhysicalProducts() bool {
	for _, item := range s.items {
		if item.Physical() {
			return true
		}
	}
	return false
}

// StoreIDs returns the distinct store ids in insertion order.
func (s *Service) StoreIDs() []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, item := range s.items {
		if _, ok := seen[item.StoreID]; ok {
			continue
		}
		seen[item.StoreID] = struct{}{}
		ids = append(ids, item.StoreID)
	}
	return ids
}

// Validate reports structured findings: lines over their current stock
// ceiling, and mixed digital+physical carts spanning more than one store.
// A single-store mixed cart is accepted.
func (s *Service) Validate() ([]Issue, error) {
	var issues []Issue
	var combined error
	for _, item := range s.items {
		if item.MaxQuantity != nil && item.Quantity > *item.MaxQuantity {
			issue := Issue{
				Kind:      IssueStockCeiling,
				ProductID: item.ProductID,
				Message:   fmt.Sprintf("only %d of %s available", *item.MaxQuantity, item.Name),
			}
			issues = append(issues, issue)
			combined = multierr.Append(combined, pkgerrors.New(pkgerrors.CodeRejected, issue.Message))
		}
	}
	if s.HasDigitalProducts() && s.HasPhysicalProducts() && len(s.StoreIDs()) > 1 {
		issue := Issue{
			Kind:    IssueMixedMultiStore,
			Message: "mixed digital and physical items across multiple stores are not supported",
		}
		issues = append(issues, issue)
		combined = multierr.Append(combined, pkgerrors.New(pkgerrors.CodeRejected, issue.Message))
	}
	return issues, combined
}

func (s *Service) find(key LineKey) (Item, bool) {
	for _, item := range s.items {
		if item.Key() == key {
			return item, true
		}
	}
	return Item{}, false
}

func (s *Service) rejectQuantity(ctx context.Context, name string, ceiling int) error {
	s.metrics.IncRejection("cart", "stock-ceiling")
	message := fmt.Sprintf("Only %d of %s available", ceiling, name)
	s.toast(ctx, enums.SeverityWarning, message)
	return pkgerrors.New(pkgerrors.CodeRejected, fmt.Sprintf("quantity exceeds the stock ceiling of %d", ceiling)).
		WithDetails(map[string]any{"reason": "stock-ceiling", "maxQuantity": ceiling})
}

// commit marks the cart dirty and persists the lines. Persistence failures are
// logged, never surfaced back into the mutation path.
func (s *Service) commit(ctx context.Context, op string) {
	s.src.Bump()
	s.metrics.IncMutation("cart", op)
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logError(ctx, storage.KeyCart, err)
		return
	}
	if err := s.store.Write(ctx, storage.KeyCart, payload); err != nil {
		s.logError(ctx, storage.KeyCart, err)
	}
}

func (s *Service) persistDiscount(ctx context.Context) {
	if s.discount == nil {
		if err := s.store.Delete(ctx, storage.KeyCartDiscount); err != nil {
			s.logError(ctx, storage.KeyCartDiscount, err)
		}
		return
	}
	payload, err := json.Marshal(s.discount)
	if err != nil {
		s.logError(ctx, storage.KeyCartDiscount, err)
		return
	}
	if err := s.store.Write(ctx, storage.KeyCartDiscount, payload); err != nil {
		s.logError(ctx, storage.KeyCartDiscount, err)
	}
}

func (s *Service) persistAddress(ctx context.Context) {
	if s.address == nil {
		if err := s.store.Delete(ctx, storage.KeyShippingAddress); err != nil {
			s.logError(ctx, storage.KeyShippingAddress, err)
		}
		return
	}
	payload, err := json.Marshal(s.address)
	if err != nil {
		s.logError(ctx, storage.KeyShippingAddress, err)
		return
	}
	if err := s.store.Write(ctx, storage.KeyShippingAddress, payload); err != nil {
		s.logError(ctx, storage.KeyShippingAddress, err)
	}
}

func (s *Service) load(ctx context.Context) {
	if payload, found, err := s.store.Read(ctx, storage.KeyCart); err == nil && found {
		var items []Item
		if err := json.Unmarshal(payload, &items); err != nil {
			s.logWarn(ctx, storage.KeyCart, err)
		} else {
			s.items = items
		}
	} else if err != nil {
		s.logWarn(ctx, storage.KeyCart, err)
	}

	if payload, found, err := s.store.Read(ctx, storage.KeyCartDiscount); err == nil && found {
		var discount Discount
		if err := json.Unmarshal(payload, &discount); err != nil {
			s.logWarn(ctx, storage.KeyCartDiscount, err)
		} else {
			s.discount = &discount
		}
	} else if err != nil {
		s.logWarn(ctx, storage.KeyCartDiscount, err)
	}

	if payload, found, err := s.store.Read(ctx, storage.KeyShippingAddress); err == nil && found {
		var address Address
		if err := json.Unmarshal(payload, &address); err != nil {
			s.logWarn(ctx, storage.KeyShippingAddress, err)
		} else {
			s.address = &address
		}
	} else if err != nil {
		s.logWarn(ctx, storage.KeyShippingAddress, err)
	}
}

func (s *Service) toast(ctx context.Context, severity enums.Severity, message string) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, severity, message)
	}
}

func (s *Service) logError(ctx context.Context, key string, err error) {
	if s.logg != nil {
		s.logg.Error(s.logg.WithStorageKey(ctx, key), "cart persistence failed", err)
	}
}

func (s *Service) logWarn(ctx context.Context, key string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithEngine(ctx, "cart")
	ctx = s.logg.WithStorageKey(ctx, key)
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
	}
	s.logg.Warn(ctx, "discarding unreadable persisted state")
}

func groupByStore(items []Item) []StoreGroup {
	index := map[string]int{}
	var groups []StoreGroup
	for _, item := range items {
		at, ok := index[item.StoreID]
		if !ok {
			at = len(groups)
			index[item.StoreID] = at
			groups = append(groups, StoreGroup{StoreID: item.StoreID})
		}
		groups[at].Items = append(groups[at].Items, item)
	}
	return groups
}
