package sim

// Clock tracks simulation time. It is owned solely by Controller; nothing
// else in the module advances it.
type Clock struct {
	now float64
}

// Now returns the current simulation time.
func (c *Clock) Now() float64 { return c.now }

func (c *Clock) advance(dt float64) { c.now += dt }

func (c *Clock) reset() { c.now = 0 }
