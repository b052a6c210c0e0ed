// Package report renders a completed check run into a single
// self-contained HTML document and a terminal summary.
package report

import (
	"regexp"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
)

// Style is the presentation for one status value.
type Style struct {
	// Label is the text shown in the status badge.
	Label string `mapstructure:"label" yaml:"label"`

	// Color is a CSS color, restricted to hex values or color names.
	Color string `mapstructure:"color" yaml:"color"`
}

// StyleMap maps each status to its style. Rendering a result whose status
// has no entry fails; a typo'd status must never render unstyled.
type StyleMap map[check.Status]Style

// statusOrder fixes the emission order of style rules and legend entries.
var statusOrder = []check.Status{
	check.StatusHealthy,
	check.StatusWarning,
	check.StatusCritical,
	check.StatusManual,
	check.StatusUnknown,
}

// DefaultStyles returns the stock status palette.
func DefaultStyles() StyleMap {
	return StyleMap{
		check.StatusHealthy:  {Label: "Healthy", Color: "#2e7d32"},
		check.StatusWarning:  {Label: "Warning", Color: "#f9a825"},
		check.StatusCritical: {Label: "Critical", Color: "#c62828"},
		check.StatusManual:   {Label: "Manual check", Color: "#1565c0"},
		check.StatusUnknown:  {Label: "Unknown", Color: "#616161"},
	}
}

// cssColor matches hex colors and bare color names. Anything else is
// rejected rather than emitted into the style block.
var cssColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+)$`)

// Validate checks that every style has a label and a safe color value.
func (m StyleMap) Validate() error {
	for status, style := range m {
		if style.Label == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "style for %s has no label", status)
		}
		if !cssColor.MatchString(style.Color) {
			return errors.Wrapf(errors.ErrInvalidConfig, "style for %s has unsafe color %q", status, style.Color)
		}
	}
	return nil
}

// lookup returns the style for a status, or ErrUnmappedStatus.
func (m StyleMap) lookup(status check.Status) (Style, error) {
	style, ok := m[status]
	if !ok {
		return Style{}, errors.Wrapf(errors.ErrUnmappedStatus, "%s", status)
	}
	return style, nil
}
