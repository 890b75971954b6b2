package coverbe

import "time"

// SetNow replaces the clock used for credential timestamps.
func (c *Client) SetNow(fn func() time.Time) { c.now = fn }
