package gpu

// OptionalIndex is a queue family index that may not have been assigned yet.
type OptionalIndex struct {
	index int
	valid bool
}

func Some(index int) OptionalIndex {
	return OptionalIndex{index: index, valid: true}
}

// Get returns the index and whether it has been assigned.
func (o OptionalIndex) Get() (int, bool) {
	return o.index, o.valid
}

func (o OptionalIndex) Valid() bool {
	return o.valid
}

type QueueFamilyIndices struct {
	Graphics OptionalIndex
	Present  OptionalIndex
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics.valid && i.Present.valid
}

// Shared reports whether graphics and presentation use the same family. Only meaningful
// once the indices are complete.
func (i QueueFamilyIndices) Shared() bool {
	return i.IsComplete() && i.Graphics.index == i.Present.index
}

// UniqueFamilies lists the distinct families, graphics first. Incomplete indices yield nil.
func (i QueueFamilyIndices) UniqueFamilies() []int {
	if !i.IsComplete() {
		return nil
	}
	if i.Shared() {
		return []int{i.Graphics.index}
	}
	return []int{i.Graphics.index, i.Present.index}
}

// FindQueueFamilies scans the adapter's queue families in index order. The first graphics-capable
// family and the first family able to present to the prober's surface win their slots; the scan
// stops as soon as both are assigned.
func FindQueueFamilies(prober AdapterProber, adapter Adapter) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	families, err := prober.QueueFamilies(adapter)
	if err != nil {
		return indices, enumerationError(err, "queue families")
	}

	for familyIndex, family := range families {
		if !indices.Graphics.valid && family.SupportsGraphics() {
			indices.Graphics = Some(familyIndex)
		}

		if !indices.Present.valid {
			supported, err := prober.PresentSupport(adapter, familyIndex)
			if err != nil {
				return indices, enumerationError(err, "surface support")
			}
			if supported {
				indices.Present = Some(familyIndex)
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
