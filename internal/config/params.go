package config

import (
	"fmt"
	"sort"
)

// Params are the numeric body settings that scripted runs may override.
var Params = map[string]func(*Config, float64){
	"pressure":    func(c *Config, v float64) { c.Body.Pressure = v },
	"k":           func(c *Config, v float64) { c.Body.SpringConstant = v },
	"damping":     func(c *Config, v float64) { c.Body.SpringDamping = v },
	"mass":        func(c *Config, v float64) { c.Body.Mass = v },
	"restitution": func(c *Config, v float64) { c.Body.Restitution = v },
	"radius":      func(c *Config, v float64) { c.Body.Radius = v },
	"x":           func(c *Config, v float64) { c.Body.OriginX = v },
	"y":           func(c *Config, v float64) { c.Body.OriginY = v },
}

func (c *Config) Set(name string, v float64) error {
	apply, ok := Params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %s (available: %v)", ErrInvalid, name, ParamNames())
	}
	apply(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
