package query

// InflightLen reports how many keys have a fetch in flight.
func (c *Cache) InflightLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
