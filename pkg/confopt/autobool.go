// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AutoBool is a tri-state switch: enabled, disabled, or auto (use the built-in default).
type AutoBool string

const (
	AutoBoolAuto     AutoBool = "auto"
	AutoBoolEnabled  AutoBool = "enabled"
	AutoBoolDisabled AutoBool = "disabled"
)

// AutoBoolFromBool converts a plain bool into an explicit AutoBool.
func AutoBoolFromBool(v bool) AutoBool {
	if v {
		return AutoBoolEnabled
	}
	return AutoBoolDisabled
}

func (b AutoBool) normalize() AutoBool {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "enabled", "enable", "yes", "on", "true":
		return AutoBoolEnabled
	case "disabled", "disable", "no", "off", "false":
		return AutoBoolDisabled
	default:
		return AutoBoolAuto
	}
}

func (b AutoBool) String() string { return string(b.normalize()) }

func (b AutoBool) IsAuto() bool     { return b.normalize() == AutoBoolAuto }
func (b AutoBool) IsEnabled() bool  { return b.normalize() == AutoBoolEnabled }
func (b AutoBool) IsDisabled() bool { return b.normalize() == AutoBoolDisabled }

// Bool resolves the switch, falling back to def when auto.
func (b AutoBool) Bool(def bool) bool {
	switch b.normalize() {
	case AutoBoolEnabled:
		return true
	case AutoBoolDisabled:
		return false
	default:
		return def
	}
}

// ToBool returns nil for auto.
func (b AutoBool) ToBool() *bool {
	if b.IsAuto() {
		return nil
	}
	v := b.IsEnabled()
	return &v
}

// WithDefault replaces auto with an explicit value.
func (b AutoBool) WithDefault(def bool) AutoBool {
	if b.IsAuto() {
		return AutoBoolFromBool(def)
	}
	return b.normalize()
}

func parseAutoBool(v any) (AutoBool, error) {
	switch x := v.(type) {
	case nil:
		return AutoBoolAuto, nil
	case bool:
		return AutoBoolFromBool(x), nil
	case string:
		if x == "" {
			return AutoBoolAuto, nil
		}
		b := AutoBool(x).normalize()
		if b == AutoBoolAuto && !strings.EqualFold(strings.TrimSpace(x), string(AutoBoolAuto)) {
			return "", fmt.Errorf("invalid auto bool value '%s' (expected auto, enabled or disabled)", x)
		}
		return b, nil
	default:
		return "", fmt.Errorf("invalid auto bool value type %T", v)
	}
}

func (b AutoBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *AutoBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := parseAutoBool(v)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b AutoBool) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *AutoBool) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	parsed, err := parseAutoBool(v)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
