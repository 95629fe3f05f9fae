// Package navigation filters static menu descriptors down to what a role
// may see.
package navigation

import (
	"errors"

	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/model"
)

// Region names a chrome region with its own descriptor set.
type Region string

const (
	RegionHeader      Region = "header"
	RegionHeaderRight Region = "header-right"
	RegionSidebar     Region = "sidebar"
)

var ErrUnknownRegion = errors.New("unknown navigation region")

// ParseRegion converts a raw region name.
func ParseRegion(s string) (Region, error) {
	switch r := Region(s); r {
	case RegionHeader, RegionHeaderRight, RegionSidebar:
		return r, nil
	}
	return "", ErrUnknownRegion
}

// Filter is pure: same menu and role in, list-equal result out.
type Filter struct {
	evaluator *access.Evaluator
}

// NewFilter creates a new Filter.
func NewFilter(evaluator *access.Evaluator) *Filter {
	return &Filter{evaluator: evaluator}
}

// FilterForRole returns the entries of menu visible to role. URL entries are
// checked as routes and URL-less entries as features. An entry with neither
// is kept only as a group with at least one visible child. Everything else
// is hidden. menu is not modified.
func (f *Filter) FilterForRole(menu []model.MenuEntry, role model.Role) []model.MenuEntry {
	visible := make([]model.MenuEntry, 0, len(menu))
	for _, entry := range menu {
		if e, ok := f.filterEntry(entry, role); ok {
			visible = append(visible, e)
		}
	}
	return visible
}

func (f *Filter) filterEntry(entry model.MenuEntry, role model.Role) (model.MenuEntry, bool) {
	var children []model.MenuEntry
	if len(entry.Children) > 0 {
		children = f.FilterForRole(entry.Children, role)
	}

	switch {
	case entry.URL != "":
		if !f.evaluator.CanAccessRoute(entry.URL, role) {
			return model.MenuEntry{}, false
		}
	case entry.Feature != "":
		if !f.evaluator.CanAccessFeature(entry.Feature, role) {
			return model.MenuEntry{}, false
		}
	default:
		if len(children) == 0 {
			return model.MenuEntry{}, false
		}
	}

	entry.Children = nil
	if len(children) > 0 {
		entry.Children = children
	}
	return entry, true
}

func (f *Filter) HeaderMenu(role model.Role) []model.MenuEntry {
	return f.FilterForRole(headerMenu, role)
}

func (f *Filter) HeaderRightMenu(role model.Role) []model.MenuEntry {
	return f.FilterForRole(headerRightMenu, role)
}

func (f *Filter) SidebarMenu(role model.Role) []model.MenuEntry {
	return f.FilterForRole(sidebarMenu, role)
}

// ForRegion dispatches to the region's descriptor set.
func (f *Filter) ForRegion(region Region, role model.Role) ([]model.MenuEntry, error) {
	switch region {
	case RegionHeader:
		return f.HeaderMenu(role), nil
	case RegionHeaderRight:
		return f.HeaderRightMenu(role), nil
	case RegionSidebar:
		return f.SidebarMenu(role), nil
	}
	return nil, ErrUnknownRegion
}
