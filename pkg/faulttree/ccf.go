package faulttree

import (
	"fmt"
	"strconv"
)

// CcfGroup is an auxiliary grouping of basic events that share a
// common-cause failure model. It is not part of the gate tree itself.
type CcfGroup struct {
	name string

	// Members holds the grouped basic events in registration order.
	// Membership is normally exclusive to one group; this is not
	// enforced here.
	Members []*BasicEvent

	// Prob is the baseline failure probability of the group.
	Prob float64

	// Model names the CCF model. Only "MGL" has a serialization.
	Model string

	// Factors holds the per-level multiplicative factors, consumed
	// starting at level 2.
	Factors []float64
}

// NewCcfGroup creates an empty CCF group.
func NewCcfGroup(name string) *CcfGroup {
	return &CcfGroup{name: name}
}

// Name returns the unique identifier of the group.
func (c *CcfGroup) Name() string { return c.name }

// AddMember appends a basic event to the group.
func (c *CcfGroup) AddMember(e *BasicEvent) {
	c.Members = append(c.Members, e)
}

// ToXML produces the OpenPSA MEF XML definition of the CCF group.
// Only the MGL encoding is implemented; any other model panics.
func (c *CcfGroup) ToXML() string {
	if c.Model != "MGL" {
		panic(fmt.Sprintf("faulttree: CCF group %q has unsupported model %q", c.name, c.Model))
	}
	xml := "<define-CCF-group name=\"" + c.name + "\" model=\"" + c.Model + "\">\n<members>\n"
	for _, member := range c.Members {
		xml += "<basic-event name=\"" + member.name + "\"/>\n"
	}
	xml += "</members>\n<distribution>\n<float value=\"" + formatFloat(c.Prob) + "\"/>\n</distribution>\n"
	xml += "<factors>\n"
	level := 2
	for _, factor := range c.Factors {
		xml += "<factor level=\"" + strconv.Itoa(level) + "\">\n" +
			"<float value=\"" + formatFloat(factor) + "\"/>\n</factor>\n"
		level++
	}
	xml += "</factors>\n</define-CCF-group>\n"
	return xml
}
