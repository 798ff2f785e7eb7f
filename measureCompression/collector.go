package main

import evt "github.com/km3net/evt_reader_go/pkg"

// eventCollector keeps converted events in memory.
type eventCollector struct {
	events []evt.Event
}

func (c *eventCollector) WriteEvent(event *evt.Event) error {
	c.events = append(c.events, *event)
	return nil
}
