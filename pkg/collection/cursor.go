package collection

// Cursor accessors. The cursor starts at the first element after
// initialization; every accessor here forces initialization, since cursor
// positions are only meaningful against the full contents. The valid flag is
// false when the cursor is past the end or the collection is empty.

// First moves the cursor to the first element and returns it.
func (c *Collection) First() (value any, valid bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	c.pos = 0
	return c.Current()
}

// Last moves the cursor to the final element and returns it.
func (c *Collection) Last() (value any, valid bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	if len(c.entries) == 0 {
		c.pos = 0
		return nil, false, nil
	}
	c.pos = len(c.entries) - 1
	return c.Current()
}

// Current returns the element under the cursor.
func (c *Collection) Current() (value any, valid bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	if c.pos < 0 || c.pos >= len(c.entries) {
		return nil, false, nil
	}
	return c.entries[c.pos].Value, true, nil
}

// Key returns the key under the cursor.
func (c *Collection) Key() (key int, valid bool, err error) {
	if err := c.Initialize(); err != nil {
		return 0, false, err
	}
	if c.pos < 0 || c.pos >= len(c.entries) {
		return 0, false, nil
	}
	return c.entries[c.pos].Key, true, nil
}

// Next advances the cursor and returns the element it lands on.
func (c *Collection) Next() (value any, valid bool, err error) {
	if err := c.Initialize(); err != nil {
		return nil, false, err
	}
	c.pos++
	return c.Current()
}
