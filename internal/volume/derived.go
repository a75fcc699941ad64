package volume

import "fmt"

// MainCategory is the sorted-layers category used as the multimask
// denominator when present.
const MainCategory = "main"

// SheetsLoading reports whether a bulk sheet load is in progress.
func (s *Snapshot) SheetsLoading() bool {
	return s.Status == StatusInitializing
}

// AutoReload reports whether the snapshot should be refreshed on a timer:
// true while sheets are loading or any processing counter is nonzero.
func (s *Snapshot) AutoReload() bool {
	return s.SheetsLoading() || s.Items.Processing.Any()
}

// UserCanEdit reports whether user may trigger edit operations against this
// volume. Staff can always edit; otherwise the volume's access policy
// decides: "any" admits any authenticated user, "sponsor" admits only the
// matching sponsor. Per-item locks still suppress edit actions regardless of
// this permission.
func (s *Snapshot) UserCanEdit(user User) bool {
	if user.IsStaff {
		return true
	}
	if !user.IsAuthenticated {
		return false
	}
	switch s.Access {
	case AccessAny:
		return true
	case AccessSponsor:
		return user.Username != "" && user.Username == s.Sponsor
	default:
		return false
	}
}

// LayerCategoryLookup maps layer slug to category name, built from the
// sorted-layers view. It seeds the classification session draft.
func (s *Snapshot) LayerCategoryLookup() map[string]string {
	lookup := make(map[string]string)
	for category, layers := range s.SortedLayers {
		for _, layer := range layers {
			if layer.Slug != "" {
				lookup[layer.Slug] = category
			}
		}
	}
	return lookup
}

// MultimaskLabel renders "<assigned>/<total>" where assigned is the number of
// layers with a mask and total is the size of the main category, falling back
// to the total layer count when no main category exists.
func (s *Snapshot) MultimaskLabel() string {
	total := len(s.Items.Layers)
	if main, ok := s.SortedLayers[MainCategory]; ok {
		total = len(main)
	}
	return fmt.Sprintf("%d/%d", len(s.Multimask), total)
}
