// Package events defines the record shipped to the collector for each
// captured interaction.
package events

import (
	"time"

	"github.com/rsclarke/clicktrace/internal/dom"
)

// Descriptor summarizes one interaction and its holder. It is built once per
// event and never modified.
type Descriptor struct {
	Type       string  `json:"type"`
	TargetTag  string  `json:"targetTag"`
	Timestamp  int64   `json:"timestamp"` // epoch milliseconds
	TargetHTML string  `json:"targetHTML"`
	HolderHTML string  `json:"holderHTML"`
	Key        *string `json:"key,omitempty"` // absent for non-key events
	MetaKey    bool    `json:"metaKey"`
}

// Build assembles the descriptor for ev framed by holder, captured at now.
// It has no side effects and does not touch the tree beyond reading markup.
func Build(ev dom.Event, holder dom.Element, now time.Time) Descriptor {
	d := Descriptor{
		Type:      ev.Type,
		Timestamp: now.UnixMilli(),
		MetaKey:   ev.MetaKey,
	}
	if ev.Target != nil {
		d.TargetTag = ev.Target.Tag()
		d.TargetHTML = ev.Target.OuterHTML()
	}
	if holder != nil {
		d.HolderHTML = holder.OuterHTML()
	}
	if ev.HasKey {
		key := ev.Key
		d.Key = &key
	}
	return d
}

// KeyValue returns the key identifier and whether one is present.
func (d Descriptor) KeyValue() (string, bool) {
	if d.Key == nil {
		return "", false
	}
	return *d.Key, true
}
