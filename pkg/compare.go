package evd

// Divergence lists the hits that only one of two selections contains.
type Divergence struct {
	Event Event
	OnlyA []int
	OnlyB []int
	Both  int
}

func (d Divergence) Empty() bool {
	return len(d.OnlyA) == 0 && len(d.OnlyB) == 0
}

// CompareSelections walks both selections, whose hit ids are sorted, and
// splits them into common and exclusive hits.
func CompareSelections(a, b Selection) Divergence {
	div := Divergence{
		Event: a.Event,
		OnlyA: []int{},
		OnlyB: []int{},
	}
	i, j := 0, 0
	for i < len(a.HitIDs) && j < len(b.HitIDs) {
		switch {
		case a.HitIDs[i] == b.HitIDs[j]:
			div.Both++
			i++
			j++
		case a.HitIDs[i] < b.HitIDs[j]:
			div.OnlyA = append(div.OnlyA, a.HitIDs[i])
			i++
		default:
			div.OnlyB = append(div.OnlyB, b.HitIDs[j])
			j++
		}
	}
	div.OnlyA = append(div.OnlyA, a.HitIDs[i:]...)
	div.OnlyB = append(div.OnlyB, b.HitIDs[j:]...)
	return div
}
