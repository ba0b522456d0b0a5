package services

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const slotLayout = "15:04"

// SlotCatalog is the fixed list of daily time slots a doctor can be booked
// into. Labels look like "09:00-09:30".
type SlotCatalog struct {
	slots []string
	index map[string]struct{}
}

func NewSlotCatalog(slots []string) *SlotCatalog {
	c := &SlotCatalog{index: make(map[string]struct{}, len(slots))}
	for _, s := range slots {
		if _, dup := c.index[s]; dup {
			continue
		}
		c.index[s] = struct{}{}
		c.slots = append(c.slots, s)
	}
	return c
}

func (c *SlotCatalog) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *SlotCatalog) Contains(slot string) bool {
	_, ok := c.index[slot]
	return ok
}

/*
* Walk from start to end in steps of the given minutes
* A step that would run past end is dropped
 */
func GenerateSlots(start, end string, minutes int) ([]string, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", minutes)
	}
	startTime, err := time.Parse(slotLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid slot start %q: %w", start, err)
	}
	endTime, err := time.Parse(slotLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid slot end %q: %w", end, err)
	}

	slots := []string{}
	step := time.Duration(minutes) * time.Minute
	for slotStart := startTime; !slotStart.Add(step).After(endTime); slotStart = slotStart.Add(step) {
		slots = append(slots, slotStart.Format(slotLayout)+"-"+slotStart.Add(step).Format(slotLayout))
	}
	return slots, nil
}

type slotFile struct {
	Slots []string `yaml:"slots"`
}

// LoadSlotCatalog reads a yaml file of the form
//
//	slots:
//	  - "09:00-09:30"
//	  - "09:30-10:00"
func LoadSlotCatalog(path string) (*SlotCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file slotFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse slot catalog %s: %w", path, err)
	}
	if len(file.Slots) == 0 {
		return nil, fmt.Errorf("slot catalog %s has no slots", path)
	}
	return NewSlotCatalog(file.Slots), nil
}
