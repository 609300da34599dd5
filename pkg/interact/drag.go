package interact

import "github.com/matzehuels/classview/pkg/hierarchy"

// DragSession is the lifetime of one drag: created on press, closed on
// release. It owns exactly one move and one release listener on the
// controller's surface and removes both when it closes.
type DragSession struct {
	ctrl  *Controller
	node  *hierarchy.Node
	start hierarchy.Point
	moved bool
	done  bool

	removeMove    func()
	removeRelease func()
}

// Target returns the ID of the dragged node.
func (d *DragSession) Target() string { return d.node.ID }

// Moved reports whether the node has moved since the press.
func (d *DragSession) Moved() bool { return d.moved }

// Start returns the node position at press time.
func (d *DragSession) Start() hierarchy.Point { return d.start }

// Closed reports whether the session has ended.
func (d *DragSession) Closed() bool { return d.done }

// move centers the node under the pointer.
func (d *DragSession) move(p hierarchy.Point) {
	if d.done {
		return
	}
	pos := p.Sub(d.ctrl.size.Half())
	if pos == d.node.Position {
		return
	}
	d.node.Position = pos
	d.moved = true
}

// end closes the session. The node's last position becomes its manual
// position, moved or not, and commit listeners are notified.
func (d *DragSession) end() {
	if d.done {
		return
	}
	d.detach()
	if d.ctrl.active == d {
		d.ctrl.active = nil
	}
	d.node.Manual = true
	d.ctrl.commit(*d.node)
}

func (d *DragSession) detach() {
	d.done = true
	d.removeMove()
	d.removeRelease()
}
