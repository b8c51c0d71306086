// Package config loads the optional style profile: an HCL file that sets
// the colors the shell uses for highlights and any extra per-selector style
// attributes. The engine never interprets these values; it only carries
// them to the shell.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Profile is the resolved style profile.
type Profile struct {
	HighlightColor string                       `json:"highlight_color"`
	DimColor       string                       `json:"dim_color"`
	StrokeWidth    int                          `json:"stroke_width"`
	Styles         map[string]map[string]string `json:"styles,omitempty"`
}

// Default returns the built-in profile used when no file is given.
func Default() *Profile {
	return &Profile{
		HighlightColor: "red",
		DimColor:       "hsl(0, 0%, 50%)",
		StrokeWidth:    1,
	}
}

// file is the HCL shape of a profile file.
type file struct {
	Profile *profileBlock `hcl:"profile,block"`
	Styles  []*styleBlock `hcl:"style,block"`
}

type profileBlock struct {
	HighlightColor *string `hcl:"highlight_color,optional"`
	DimColor       *string `hcl:"dim_color,optional"`
	StrokeWidth    *int    `hcl:"stroke_width,optional"`
}

type styleBlock struct {
	Selector string   `hcl:"selector,label"`
	Body     hcl.Body `hcl:",remain"`
}

// Load parses an HCL profile file and overlays it on the defaults.
func Load(path string) (*Profile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, diags)
	}

	var f file
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, diags)
	}

	p := Default()
	if f.Profile != nil {
		if f.Profile.HighlightColor != nil {
			p.HighlightColor = *f.Profile.HighlightColor
		}
		if f.Profile.DimColor != nil {
			p.DimColor = *f.Profile.DimColor
		}
		if f.Profile.StrokeWidth != nil {
			p.StrokeWidth = *f.Profile.StrokeWidth
		}
	}

	for _, b := range f.Styles {
		attrs, err := decodeAttributes(b.Body)
		if err != nil {
			return nil, fmt.Errorf("style %q in %s: %w", b.Selector, path, err)
		}
		if p.Styles == nil {
			p.Styles = make(map[string]map[string]string)
		}
		p.Styles[b.Selector] = attrs
	}
	return p, nil
}

// decodeAttributes evaluates a style block's open attribute set down to
// strings via cty conversion.
func decodeAttributes(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: cannot convert %s to string: %w",
				name, v.Type().FriendlyName(), err)
		}
		out[name] = sv.AsString()
	}
	return out, nil
}
