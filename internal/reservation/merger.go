package reservation

// Normalize fills the keys a partial prior record left out. A nil prior
// yields the canonical empty draft.
func Normalize(prior *Draft) Draft {
	if prior == nil {
		return EmptyDraft()
	}
	d := *prior
	if d.Description == "" {
		d.Description = DefaultDescription
	}
	return d
}

// Merge overlays the non-empty fields of an extraction onto a draft. A field
// the extraction did not find is never cleared. A new date or time
// invalidates instants combined from the old values.
func Merge(d Draft, x Extraction) Draft {
	if x.Title != "" {
		d.Title = x.Title
	}
	if !x.Date.Empty() && x.Date.Value != d.Date {
		d.Date = x.Date.Value
		d.StartAt, d.EndAt = nil, nil
	}
	if !x.Time.Empty() && x.Time.Value != d.Time {
		d.Time = x.Time.Value
		d.StartAt, d.EndAt = nil, nil
	}
	return d
}
