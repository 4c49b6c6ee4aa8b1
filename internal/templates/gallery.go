package templates

// AddGalleryImage appends a new item for ref to the gallery and returns the
// updated list. The input slice is not mutated; a nil gallery is treated as
// empty.
func AddGalleryImage(items []GalleryItem, ref ImageRef) []GalleryItem {
	updated := make([]GalleryItem, 0, len(items)+1)
	updated = append(updated, items...)
	return append(updated, GalleryItem{ImageRef: ref})
}

// RemoveGalleryImage drops the item at index and returns the updated list
// with the remaining items shifted down, so later indices stay dense. An
// out-of-range index reports false and leaves the gallery unchanged.
func RemoveGalleryImage(items []GalleryItem, index int) ([]GalleryItem, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	updated := make([]GalleryItem, 0, len(items)-1)
	updated = append(updated, items[:index]...)
	return append(updated, items[index+1:]...), true
}
