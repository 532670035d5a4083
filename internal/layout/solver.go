package layout

import (
	"sort"

	"github.com/kryvoslayout/clay/geom"
)

// SizeAlongAxis runs one solver pass over every layout root along axis,
// generalized from Clay__SizeContainersAlongAxis.h and from glimo's
// auto_layout.go placeLines grow/shrink remainder distribution. Called
// twice by EndLayout: once along X with declaration-time heights, once
// along Y after text wrapping and aspect-ratio resolution.
func (t *Tree) SizeAlongAxis(axis Axis) {
	for ri := range t.roots {
		root := t.roots[ri]
		rootEl := t.elements.Ptr(root.ElementIndex)
		if rootEl == nil {
			continue
		}
		if root.Floating {
			t.fitFloatingToParent(rootEl, root, axis)
		}

		queue := []int{root.ElementIndex}
		for len(queue) > 0 {
			parentIdx := queue[0]
			queue = queue[1:]
			parent := t.elements.Ptr(parentIdx)
			if parent == nil {
				continue
			}
			t.distributeChildren(parent, axis)
			for i := 0; i < parent.ChildrenCount; i++ {
				childIdx := int(t.children.Get(parent.ChildrenStart + i))
				child := t.elements.Ptr(childIdx)
				if child == nil || child.FloatingIndex > 0 {
					continue // floating children are sized via their own root.
				}
				queue = append(queue, childIdx)
			}
		}
	}
}

func axisGet(d geom.Dimensions, axis Axis) float64 {
	if axis == AxisX {
		return d.Width
	}
	return d.Height
}

func axisSet(d *geom.Dimensions, axis Axis, v float64) {
	if axis == AxisX {
		d.Width = v
	} else {
		d.Height = v
	}
}

func paddingOn(p geom.Padding, axis Axis) float64 {
	if axis == AxisX {
		return p.Horizontal()
	}
	return p.Vertical()
}

// fitFloatingToParent implements spec.md §4.5 step 1: a floating root
// whose sizing is Grow or Percent takes its size from the resolved
// parent, found via the identity hash map.
func (t *Tree) fitFloatingToParent(rootEl *Element, root Root, axis Axis) {
	parentItem, ok := t.hashMap.Get(root.ParentID)
	if !ok {
		return
	}
	parentEl := t.elements.Ptr(parentItem.ElementIndex)
	if parentEl == nil {
		return
	}
	sizing := rootEl.Layout.Sizing[axis]
	switch sizing.Type {
	case geom.SizingGrow:
		axisSet(&rootEl.Dimensions, axis, axisGet(parentEl.Dimensions, axis))
	case geom.SizingPercent:
		axisSet(&rootEl.Dimensions, axis, axisGet(parentEl.Dimensions, axis)*sizing.Percent)
	}
}

func isLaidOutAxis(parent *Element, axis Axis) bool {
	if axis == AxisX {
		return parent.Layout.Direction == LeftToRight
	}
	return parent.Layout.Direction == TopToBottom
}

// textParticipatesInResize reports whether a text child is resizable on
// this axis: only Word-wrapped text can shrink/grow along the wrap axis.
func (t *Tree) textParticipatesInResize(child *Element, axis Axis) bool {
	if child.TextIndex < 0 {
		return true
	}
	if axis != AxisX {
		return true
	}
	td := t.texts.Get(child.TextIndex)
	return td.Config.WrapMode == 0 /* measure.WrapWords */
}

// distributeChildren resolves Percent children, then (on-axis) compresses
// overflow or grows slack, and (off-axis) stretches Grow children to fill
// the parent, for one parent/axis pair.
func (t *Tree) distributeChildren(parent *Element, axis Axis) {
	n := parent.ChildrenCount
	if n == 0 {
		return
	}
	type childRef struct {
		idx int
		el  *Element
	}
	var kids []childRef
	for i := 0; i < n; i++ {
		ci := int(t.children.Get(parent.ChildrenStart + i))
		ce := t.elements.Ptr(ci)
		if ce == nil || ce.FloatingIndex > 0 {
			continue
		}
		kids = append(kids, childRef{ci, ce})
	}
	if len(kids) == 0 {
		return
	}

	padding := paddingOn(parent.Layout.Padding, axis)
	gap := float64(parent.Layout.ChildGap)
	gaps := 0.0
	if len(kids) > 1 {
		gaps = gap * float64(len(kids)-1)
	}
	parentAxisSize := axisGet(parent.Dimensions, axis)

	// Percent resolution.
	avail := parentAxisSize - padding - gaps
	if avail < 0 {
		avail = 0
	}
	for _, k := range kids {
		sizing := k.el.Layout.Sizing[axis]
		if sizing.Type == geom.SizingPercent {
			if sizing.Percent > 1 {
				t.reportOnce(ErrPercentageOver1, "percent sizing %.3f exceeds 1 on element %d", sizing.Percent, k.el.ID)
			}
			axisSet(&k.el.Dimensions, axis, avail*sizing.Percent)
		}
	}

	onAxis := isLaidOutAxis(parent, axis)
	clips := t.axisClips(parent, axis)

	if onAxis {
		inner := gaps
		for _, k := range kids {
			inner += axisGet(k.el.Dimensions, axis)
		}
		slack := parentAxisSize - padding - inner

		var resizable []*Element
		for _, k := range kids {
			sizing := k.el.Layout.Sizing[axis]
			if sizing.Type == geom.SizingFixed || sizing.Type == geom.SizingPercent {
				continue
			}
			if !t.textParticipatesInResize(k.el, axis) {
				continue
			}
			resizable = append(resizable, k.el)
		}

		switch {
		case slack < 0:
			if !clips {
				compressEqualLargest(resizable, axis, -slack)
			}
		case slack > 0:
			var growable []*Element
			for _, el := range resizable {
				if el.Layout.Sizing[axis].Type == geom.SizingGrow {
					growable = append(growable, el)
				}
			}
			if len(growable) > 0 {
				growEqualSmallest(growable, axis, slack)
			}
		}
		return
	}

	// Off-axis: each resizable Grow child takes min(parentAxis-padding, max).
	offAvail := parentAxisSize - padding
	if offAvail < 0 {
		offAvail = 0
	}
	for _, k := range kids {
		sizing := k.el.Layout.Sizing[axis]
		if sizing.Type != geom.SizingGrow {
			continue
		}
		target := offAvail
		if sizing.MinMax.Max > 0 && sizing.MinMax.Max < target {
			target = sizing.MinMax.Max
		}
		if sizing.MinMax.Min > target {
			target = sizing.MinMax.Min
		}
		axisSet(&k.el.Dimensions, axis, target)
	}
}

func (t *Tree) axisClips(el *Element, axis Axis) bool {
	h, v := t.elementClipsAxes(el)
	if axis == AxisX {
		return h
	}
	return v
}

// compressEqualLargest removes `excess` total size from children by
// repeatedly shrinking whichever children currently tie for largest,
// stopping any child that reaches its configured minimum. This mirrors
// the C source's rule: find the largest and second-largest sizes, shrink
// every child tied for largest by min(evenShare, largest-secondLargest),
// and repeat until excess is consumed or nothing can shrink further.
func compressEqualLargest(children []*Element, axis Axis, excess float64) {
	active := append([]*Element(nil), children...)
	const eps = 1e-6
	for excess > eps && len(active) > 0 {
		largest, second := -1.0, -1.0
		for _, el := range active {
			v := axisGet(el.Dimensions, axis)
			if v > largest {
				second = largest
				largest = v
			} else if v > second {
				second = v
			}
		}
		var tied []*Element
		for _, el := range active {
			if axisGet(el.Dimensions, axis) == largest {
				tied = append(tied, el)
			}
		}
		share := excess / float64(len(tied))
		step := share
		if second >= 0 && largest-second < step {
			step = largest - second
		}
		if step <= eps {
			step = excess / float64(len(tied))
		}

		tiedSet := make(map[*Element]bool, len(tied))
		var next []*Element
		for _, el := range tied {
			tiedSet[el] = true
			min := el.Layout.Sizing[axis].MinMax.Min
			cur := axisGet(el.Dimensions, axis)
			newVal := cur - step
			if newVal < min {
				newVal = min
			}
			actualStep := cur - newVal
			excess -= actualStep
			axisSet(&el.Dimensions, axis, newVal)
			if newVal > min+eps {
				next = append(next, el)
			}
		}
		for _, el := range active {
			if !tiedSet[el] {
				next = append(next, el)
			}
		}
		if len(next) == len(active) && step <= eps {
			break // no progress possible; avoid an infinite loop on pathological input.
		}
		active = next
	}
}

// growEqualSmallest is compressEqualLargest's mirror image for slack
// distribution: repeatedly grow whichever children tie for smallest,
// bounded by each child's max.
func growEqualSmallest(children []*Element, axis Axis, slack float64) {
	active := append([]*Element(nil), children...)
	const eps = 1e-6
	for slack > eps && len(active) > 0 {
		smallest, second := 1e18, 1e18
		for _, el := range active {
			v := axisGet(el.Dimensions, axis)
			if v < smallest {
				second = smallest
				smallest = v
			} else if v < second {
				second = v
			}
		}
		var tied []*Element
		for _, el := range active {
			if axisGet(el.Dimensions, axis) == smallest {
				tied = append(tied, el)
			}
		}
		share := slack / float64(len(tied))
		step := share
		if second < 1e18 && second-smallest < step {
			step = second - smallest
		}
		if step <= eps {
			step = slack / float64(len(tied))
		}

		tiedSet := make(map[*Element]bool, len(tied))
		var next []*Element
		for _, el := range tied {
			tiedSet[el] = true
			max := el.Layout.Sizing[axis].MinMax.Max
			cur := axisGet(el.Dimensions, axis)
			newVal := cur + step
			if max > 0 && newVal > max {
				newVal = max
			}
			actualStep := newVal - cur
			slack -= actualStep
			axisSet(&el.Dimensions, axis, newVal)
			if max <= 0 || newVal < max-eps {
				next = append(next, el)
			}
		}
		for _, el := range active {
			if !tiedSet[el] {
				next = append(next, el)
			}
		}
		if len(next) == len(active) && step <= eps {
			break
		}
		active = next
	}
}

// sortRootsByZIndex stable-sorts layout roots ascending by z-index; roots
// are few so a stable sort (even an O(n^2) bubble sort, as the C source
// uses) is plenty fast — sort.SliceStable gives the same stability
// guarantee with stdlib's sort.
func sortRootsByZIndex(roots []Root) {
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].ZIndex < roots[j].ZIndex
	})
}
